package main

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tabulario/tabular/pkg/config"
	"github.com/tabulario/tabular/pkg/format"
	"github.com/tabulario/tabular/pkg/logger"
	"github.com/tabulario/tabular/pkg/table"
)

var version = "0.1.0"

// readOptions converts the input section into per-call overrides.
func readOptions(cfg *config.Config) format.Options {
	opts := format.Options{
		Encoding: cfg.Input.Encoding,
		Sheet:    cfg.Input.Sheet,
	}
	if cfg.Input.Delimiter != "" {
		opts.Delimiter = []rune(cfg.Input.Delimiter)[0]
	}
	if !cfg.Input.ReuseVariables {
		opts.Registry = table.NewVarRegistry()
	}
	return opts
}

func writeOptions(cfg *config.Config) format.Options {
	var opts format.Options
	if cfg.Output.Delimiter != "" {
		opts.Delimiter = []rune(cfg.Output.Delimiter)[0]
	}
	return opts
}

func main() {
	var configFile string
	cfg := config.NewDefault()

	root := &cobra.Command{
		Use:   "tabtool",
		Short: "tabtool - inspect and convert tabular dataset files",
		Long: `tabtool loads typed tabular datasets (.tab, .csv, .xlsx, .pkl, .basket,
optionally gzip/bzip2/xz compressed) and reports or converts them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return logger.Init(logger.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
				Encoding:    cfg.Logging.Encoding,
			})
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tabtool v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List registered file formats",
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range format.Formats() {
				caps := make([]string, 0, 2)
				if _, ok := f.(format.Reader); ok {
					caps = append(caps, "read")
				}
				if _, ok := f.(format.Writer); ok {
					caps = append(caps, "write")
				}
				fmt.Printf("  %-10s %-32s %s  [%s]\n",
					f.Name(), f.Description(),
					strings.Join(f.Extensions(), " "),
					strings.Join(caps, "/"))
			}
		},
	})

	var asJSON bool
	infoCmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Summarize the domain and contents of a dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0], asJSON, readOptions(cfg))
		},
	}
	infoCmd.Flags().BoolVar(&asJSON, "json", false, "emit the summary as JSON")
	root.AddCommand(infoCmd)

	root.AddCommand(&cobra.Command{
		Use:   "convert SRC DST",
		Short: "Read a dataset and store it in the format implied by DST",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], args[1], cfg)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type variableInfo struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Values  []string `json:"values,omitempty"`
	Missing int      `json:"missing"`
}

type tableInfo struct {
	File       string         `json:"file"`
	Rows       int            `json:"rows"`
	Weighted   bool           `json:"weighted"`
	Attributes []variableInfo `json:"attributes"`
	ClassVars  []variableInfo `json:"class_vars"`
	Metas      []variableInfo `json:"metas"`
}

func runInfo(filename string, asJSON bool, opts format.Options) error {
	t, err := format.ReadWith(filename, opts)
	if err != nil {
		return err
	}
	logger.Debug("dataset loaded",
		zap.String("file", filename),
		zap.Int("rows", t.NRows()),
		zap.Int("columns", t.NCols()))

	info := tableInfo{
		File:       filename,
		Rows:       t.NRows(),
		Weighted:   len(t.W) > 0,
		Attributes: numericInfo(t.Domain.Attributes, t.X),
		ClassVars:  numericInfo(t.Domain.ClassVars, t.Y),
		Metas:      metaInfo(t.Domain.Metas, t.Metas),
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("%s: %d rows", info.File, info.Rows)
	if info.Weighted {
		fmt.Print(", weighted")
	}
	fmt.Println()
	printVars("attributes", info.Attributes)
	printVars("class vars", info.ClassVars)
	printVars("metas", info.Metas)
	return nil
}

func numericInfo(vars []*table.Variable, cols [][]float64) []variableInfo {
	out := make([]variableInfo, len(vars))
	for i, v := range vars {
		missing := 0
		for _, f := range cols[i] {
			if math.IsNaN(f) {
				missing++
			}
		}
		out[i] = variableInfo{Name: v.Name, Kind: v.Kind.String(), Values: v.Values, Missing: missing}
	}
	return out
}

func metaInfo(vars []*table.Variable, cols [][]string) []variableInfo {
	out := make([]variableInfo, len(vars))
	for i, v := range vars {
		missing := 0
		for _, s := range cols[i] {
			if s == "" {
				missing++
			}
		}
		out[i] = variableInfo{Name: v.Name, Kind: v.Kind.String(), Values: v.Values, Missing: missing}
	}
	return out
}

func printVars(label string, vars []variableInfo) {
	if len(vars) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, v := range vars {
		fmt.Printf("  %-24s %s", v.Name, v.Kind)
		if len(v.Values) > 0 {
			fmt.Printf(" {%s}", strings.Join(v.Values, ", "))
		}
		if v.Missing > 0 {
			fmt.Printf(" (%d missing)", v.Missing)
		}
		fmt.Println()
	}
}

func runConvert(src, dst string, cfg *config.Config) error {
	if !cfg.Output.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("%s already exists and output.overwrite is disabled", dst)
		}
	}

	t, err := format.ReadWith(src, readOptions(cfg))
	if err != nil {
		return err
	}
	if err := format.WriteWith(dst, t, writeOptions(cfg)); err != nil {
		return err
	}
	logger.Info("dataset converted",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Int("rows", t.NRows()))
	return nil
}
