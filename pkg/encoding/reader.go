package encoding

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tabulario/tabular/pkg/logger"
)

// lookupEncoding maps a detected encoding label to an x/text decoder.
// Labels the detector may emit that htmlindex doesn't know get explicit
// cases; UTF-8-compatible labels and unknowns return nil (passthrough).
func lookupEncoding(label string) encoding.Encoding {
	switch label {
	case "", "utf-8", "us-ascii", "ascii", "utf-7":
		// UTF-7 has no x/text decoder; ASCII-compatible content decodes
		// as-is in practice.
		return nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "ebcdic", "ibm037":
		return charmap.CodePage037
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		logger.Warn("unknown text encoding, reading as-is", zap.String("encoding", label))
		return nil
	}
	return enc
}

// DecodingReader wraps r so that text in the named encoding comes out as
// UTF-8. An empty or unknown label reads the stream unchanged.
func DecodingReader(r io.Reader, label string) io.Reader {
	enc := lookupEncoding(strings.ToLower(label))
	if enc == nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}
