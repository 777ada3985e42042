package format

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tabulario/tabular/pkg/encoding"
	"github.com/tabulario/tabular/pkg/errors"
	"github.com/tabulario/tabular/pkg/logger"
	"github.com/tabulario/tabular/pkg/table"
)

// Format describes a file format adapter. An adapter additionally
// implements Reader, Writer, or both.
type Format interface {
	// Name is the registry identifier (e.g. "csv").
	Name() string
	// Description is the human-readable format description.
	Description() string
	// Extensions lists the filename suffixes the adapter handles,
	// without compressed variants.
	Extensions() []string
	// SupportsCompressed reports whether the adapter reads/writes
	// through the transparent compression resolver; if so, every
	// extension is also registered with the .gz/.bz2/.xz suffixes.
	SupportsCompressed() bool
}

// Reader is a Format that can load a table from a file.
type Reader interface {
	Format
	ReadTable(filename string) (*table.Table, error)
}

// Writer is a Format that can store a table to a file.
type Writer interface {
	Format
	WriteTable(filename string, t *table.Table) error
}

// Registry maps filename extensions (including compressed variants) to
// format adapters.
type Registry struct {
	mu      sync.RWMutex
	formats []Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var globalFormats = NewRegistry()

// Register adds a format adapter to the registry.
func (r *Registry) Register(f Format) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.formats {
		if existing.Name() == f.Name() {
			return errors.Newf(errors.ErrorTypeConfig, "format %s already registered", f.Name())
		}
	}
	r.formats = append(r.formats, f)
	// Resolved lazily so a logger configured after package init applies.
	logger.Debug("format registered",
		zap.String("component", "format_registry"),
		zap.String("name", f.Name()),
		zap.Strings("extensions", extensionsOf(f)))
	return nil
}

// extensionsOf expands the adapter's extensions with the compressed
// suffix combinations when the adapter supports them.
func extensionsOf(f Format) []string {
	exts := append([]string(nil), f.Extensions()...)
	if f.SupportsCompressed() {
		for _, ext := range f.Extensions() {
			for _, comp := range encoding.CompressionExts {
				exts = append(exts, ext+comp)
			}
		}
	}
	return exts
}

// Formats returns the registered adapters.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Format(nil), r.formats...)
}

func (r *Registry) lookup(filename string) Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := []string{filename}
	// A trailing :sheet selector (spreadsheets) is not part of the
	// extension.
	if base, _, ok := SplitSheetSuffix(filename); ok {
		candidates = append(candidates, base)
	}

	for _, name := range candidates {
		for _, f := range r.formats {
			for _, ext := range extensionsOf(f) {
				if strings.HasSuffix(name, ext) {
					return f
				}
			}
		}
	}
	return nil
}

// ReaderFor resolves the reading adapter for filename by extension.
func (r *Registry) ReaderFor(filename string) (Reader, error) {
	f := r.lookup(filename)
	if f == nil {
		return nil, errors.Newf(errors.ErrorTypeConfig, "no such format: cannot read %q", filename)
	}
	reader, ok := f.(Reader)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeConfig, "format %s cannot read %q", f.Name(), filename)
	}
	return reader, nil
}

// WriterFor resolves the writing adapter for filename by extension.
func (r *Registry) WriterFor(filename string) (Writer, error) {
	f := r.lookup(filename)
	if f == nil {
		return nil, errors.Newf(errors.ErrorTypeConfig, "no such format: cannot write %q", filename)
	}
	writer, ok := f.(Writer)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeConfig, "format %s cannot write %q", f.Name(), filename)
	}
	return writer, nil
}

// Read loads a typed table from filename, selecting the adapter by
// extension.
func (r *Registry) Read(filename string) (*table.Table, error) {
	reader, err := r.ReaderFor(filename)
	if err != nil {
		return nil, err
	}
	return reader.ReadTable(filename)
}

// Write stores a typed table to filename, selecting the adapter by
// extension.
func (r *Registry) Write(filename string, t *table.Table) error {
	writer, err := r.WriterFor(filename)
	if err != nil {
		return err
	}
	return writer.WriteTable(filename, t)
}

// Global registry functions

// Register adds a format adapter to the global registry.
func Register(f Format) error {
	return globalFormats.Register(f)
}

// Read loads a table through the global registry.
func Read(filename string) (*table.Table, error) {
	return globalFormats.Read(filename)
}

// Write stores a table through the global registry.
func Write(filename string, t *table.Table) error {
	return globalFormats.Write(filename, t)
}

// Formats lists the globally registered adapters.
func Formats() []Format {
	return globalFormats.Formats()
}

// Built-in adapters are registered explicitly, in resolution order.
func init() {
	for _, f := range []Format{
		NewCSVFormat(),
		NewTabFormat(),
		NewExcelFormat(),
		NewSnapshotFormat(),
		NewBasketFormat(),
	} {
		if err := Register(f); err != nil {
			panic(err)
		}
	}
}
