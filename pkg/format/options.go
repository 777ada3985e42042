package format

import (
	"github.com/tabulario/tabular/pkg/table"
)

// Options carries per-call read/write overrides. Zero values keep the
// automatic behavior (detect, sniff, first usable sheet, process-wide
// variable registry).
type Options struct {
	// Encoding forces a text encoding instead of detection.
	Encoding string
	// Delimiter forces a field delimiter instead of sniffing (read)
	// or overrides the format default (write).
	Delimiter rune
	// Sheet selects a spreadsheet sheet when the path carries no
	// ":sheetname" selector.
	Sheet string
	// Registry scopes variable resolution to a private registry
	// instead of the process-wide one.
	Registry *table.VarRegistry
}

// OptionReader is implemented by adapters whose read path accepts
// per-call overrides. Adapters without it ignore the options.
type OptionReader interface {
	Reader
	ReadTableWith(filename string, opts Options) (*table.Table, error)
}

// OptionWriter is the write-side counterpart of OptionReader.
type OptionWriter interface {
	Writer
	WriteTableWith(filename string, t *table.Table, opts Options) error
}

// ReadWith loads a table like Read, applying opts when the resolved
// adapter supports them.
func (r *Registry) ReadWith(filename string, opts Options) (*table.Table, error) {
	reader, err := r.ReaderFor(filename)
	if err != nil {
		return nil, err
	}
	if or, ok := reader.(OptionReader); ok {
		return or.ReadTableWith(filename, opts)
	}
	return reader.ReadTable(filename)
}

// WriteWith stores a table like Write, applying opts when the resolved
// adapter supports them.
func (r *Registry) WriteWith(filename string, t *table.Table, opts Options) error {
	writer, err := r.WriterFor(filename)
	if err != nil {
		return err
	}
	if ow, ok := writer.(OptionWriter); ok {
		return ow.WriteTableWith(filename, t, opts)
	}
	return writer.WriteTable(filename, t)
}

// ReadWith loads a table through the global registry with overrides.
func ReadWith(filename string, opts Options) (*table.Table, error) {
	return globalFormats.ReadWith(filename, opts)
}

// WriteWith stores a table through the global registry with overrides.
func WriteWith(filename string, t *table.Table, opts Options) error {
	return globalFormats.WriteWith(filename, t, opts)
}
