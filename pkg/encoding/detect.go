package encoding

import (
	"bufio"
	"bytes"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"go.uber.org/zap"

	"github.com/tabulario/tabular/pkg/logger"
)

// detectBudget caps how much of a stream the statistical detector
// consumes before giving its best answer.
const detectBudget = 64 * 1024

// mimeAllowList holds the encodings the fast MIME sniff is trusted for.
// Anything else (unknown-8bit, binary, exotic codepages) is handed to
// the statistical detector, which does better on those.
var mimeAllowList = map[string]bool{
	"utf-8":      true,
	"us-ascii":   true,
	"ascii":      true,
	"iso-8859-1": true,
	"utf-7":      true,
	"utf-16le":   true,
	"utf-16be":   true,
	"ebcdic":     true,
}

// SelfDescribing is implemented by inputs that already know their own
// text encoding; DetectReader trusts them without re-detecting.
type SelfDescribing interface {
	Encoding() string
}

// DetectFile detects the text encoding of the file at filename.
// Returns the lower-case encoding label, or "" when no encoding could
// be determined — callers must treat "" as "use the platform default"
// rather than fail the read.
func DetectFile(filename string) string {
	// The MIME sniff reads raw bytes, so it is useless on compressed
	// files; those go straight to the statistical detector.
	if !IsCompressed(filename) {
		if enc := sniffMIMEEncoding(filename); enc != "" {
			return enc
		}
	}

	rc, err := OpenCompressed(filename)
	if err != nil {
		logger.Warn("encoding detection: cannot open file",
			zap.String("file", filename), zap.Error(err))
		return ""
	}
	defer rc.Close()

	return detectStream(rc)
}

// DetectBytes runs the statistical detector over the whole buffer.
func DetectBytes(data []byte) string {
	return detectBuffer(data)
}

// DetectReader detects the encoding of an arbitrary input. Inputs that
// declare their own encoding are trusted as-is; otherwise the stream is
// scanned statistically. The consumed prefix is lost to the caller, so
// pass a re-openable or buffered source.
func DetectReader(r io.Reader) string {
	if sd, ok := r.(SelfDescribing); ok {
		return strings.ToLower(sd.Encoding())
	}
	return detectStream(r)
}

// sniffMIMEEncoding is the fast first tier: MIME detection of the raw
// file, accepted only for the allow-listed encodings.
func sniffMIMEEncoding(filename string) string {
	m, err := mimetype.DetectFile(filename)
	if err != nil {
		return ""
	}

	_, params, err := mime.ParseMediaType(m.String())
	if err != nil {
		return ""
	}

	enc := strings.ToLower(params["charset"])
	if !mimeAllowList[enc] {
		return ""
	}
	if enc == "ascii" {
		enc = "us-ascii"
	}
	return enc
}

// detectStream feeds lines to the statistical detector until the budget
// is spent, then reports the best guess.
func detectStream(r io.Reader) string {
	var buf bytes.Buffer
	scanner := bufio.NewScanner(io.LimitReader(r, detectBudget))
	scanner.Buffer(make([]byte, 0, 64*1024), detectBudget)
	for scanner.Scan() {
		buf.Write(scanner.Bytes())
		buf.WriteByte('\n')
	}
	return detectBuffer(buf.Bytes())
}

func detectBuffer(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return ""
	}
	return strings.ToLower(result.Charset)
}
