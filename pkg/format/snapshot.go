package format

import (
	"math"
	"os"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/tabulario/tabular/pkg/errors"
	"github.com/tabulario/tabular/pkg/table"
)

// snapshotVersion tags the blob payload for forward compatibility.
const snapshotVersion = 1

// snapshotFormat stores an already-typed table as an opaque blob (a
// zstd-compressed JSON payload). It bypasses the header and inference
// pipeline entirely on both paths.
type snapshotFormat struct{}

// NewSnapshotFormat creates the typed-table blob adapter.
func NewSnapshotFormat() Format {
	return &snapshotFormat{}
}

func (s *snapshotFormat) Name() string             { return "snapshot" }
func (s *snapshotFormat) Description() string      { return "Serialized table snapshot" }
func (s *snapshotFormat) Extensions() []string     { return []string{".pickle", ".pkl"} }
func (s *snapshotFormat) SupportsCompressed() bool { return false }

type snapshotVariable struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Values     []string          `json:"values,omitempty"`
	Ordered    bool              `json:"ordered,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Numeric cells are stored as nullable floats: JSON has no NaN, so
// missing values round-trip as null.
type snapshotPayload struct {
	Version    int                `json:"version"`
	Attributes []snapshotVariable `json:"attributes"`
	ClassVars  []snapshotVariable `json:"class_vars"`
	Metas      []snapshotVariable `json:"metas"`
	X          [][]*float64       `json:"x"`
	Y          [][]*float64       `json:"y"`
	MetaCols   [][]string         `json:"meta_cols"`
	W          [][]*float64       `json:"w"`
}

func packCols(cols [][]float64) [][]*float64 {
	out := make([][]*float64, len(cols))
	for i, col := range cols {
		packed := make([]*float64, len(col))
		for j, f := range col {
			if !math.IsNaN(f) {
				v := f
				packed[j] = &v
			}
		}
		out[i] = packed
	}
	return out
}

func unpackCols(cols [][]*float64) [][]float64 {
	out := make([][]float64, len(cols))
	for i, col := range cols {
		unpacked := make([]float64, len(col))
		for j, p := range col {
			if p == nil {
				unpacked[j] = math.NaN()
			} else {
				unpacked[j] = *p
			}
		}
		out[i] = unpacked
	}
	return out
}

func snapshotVars(vars []*table.Variable) []snapshotVariable {
	out := make([]snapshotVariable, len(vars))
	for i, v := range vars {
		out[i] = snapshotVariable{
			Name:       v.Name,
			Kind:       v.Kind.String(),
			Values:     v.Values,
			Ordered:    v.Ordered,
			Attributes: v.Attributes,
		}
	}
	return out
}

func restoreVars(vars []snapshotVariable) ([]*table.Variable, error) {
	out := make([]*table.Variable, len(vars))
	for i, sv := range vars {
		var kind table.VarKind
		switch sv.Kind {
		case "continuous":
			kind = table.Continuous
		case "discrete":
			kind = table.Discrete
		case "string":
			kind = table.String
		default:
			return nil, errors.Newf(errors.ErrorTypeParse, "unknown variable kind %q", sv.Kind)
		}
		out[i] = &table.Variable{
			Name:       sv.Name,
			Kind:       kind,
			Values:     sv.Values,
			Ordered:    sv.Ordered,
			Attributes: sv.Attributes,
		}
	}
	return out, nil
}

// ReadTable loads a snapshot blob.
func (s *snapshotFormat) ReadTable(filename string) (*table.Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "cannot open "+filename)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "bad snapshot stream in "+filename)
	}
	defer dec.Close()

	var payload snapshotPayload
	if err := json.NewDecoder(dec).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "cannot decode snapshot "+filename)
	}
	if payload.Version != snapshotVersion {
		return nil, errors.Newf(errors.ErrorTypeParse,
			"unsupported snapshot version %d in %s", payload.Version, filename)
	}

	attrs, err := restoreVars(payload.Attributes)
	if err != nil {
		return nil, err
	}
	classVars, err := restoreVars(payload.ClassVars)
	if err != nil {
		return nil, err
	}
	metas, err := restoreVars(payload.Metas)
	if err != nil {
		return nil, err
	}

	domain := table.NewDomain(attrs, classVars, metas)
	t, err := table.New(domain, unpackCols(payload.X), unpackCols(payload.Y),
		payload.MetaCols, unpackCols(payload.W))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "inconsistent snapshot "+filename)
	}
	return t, nil
}

// WriteTable stores the table as a snapshot blob.
func (s *snapshotFormat) WriteTable(filename string, t *table.Table) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot create "+filename)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot compress "+filename)
	}

	payload := snapshotPayload{
		Version:    snapshotVersion,
		Attributes: snapshotVars(t.Domain.Attributes),
		ClassVars:  snapshotVars(t.Domain.ClassVars),
		Metas:      snapshotVars(t.Domain.Metas),
		X:          packCols(t.X),
		Y:          packCols(t.Y),
		MetaCols:   t.Metas,
		W:          packCols(t.W),
	}

	if err := json.NewEncoder(enc).Encode(&payload); err != nil {
		enc.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "cannot encode snapshot "+filename)
	}
	return enc.Close()
}
