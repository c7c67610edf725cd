package manifest

import (
	"fmt"
	"strings"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

// Header columns shared by both formats.
var headerColumns = []string{"sample-id", "absolute-filepath", "direction"}

// Writer serializes manifests.
type Writer struct {
	format Format
}

// NewWriter creates a Writer for the given format.
func NewWriter(format Format) *Writer {
	return &Writer{format: format}
}

// Serialize renders the manifest as delimited text, header line first.
func (w *Writer) Serialize(m *Manifest) (string, error) {
	sep, err := w.format.Delimiter()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(headerColumns, sep))
	sb.WriteByte('\n')
	for _, r := range m.Records {
		sb.WriteString(r.SampleID)
		sb.WriteString(sep)
		sb.WriteString(r.FilePath)
		sb.WriteString(sep)
		sb.WriteString(string(r.Direction))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// WriteFile serializes the manifest and writes it to path atomically
// (temp file + rename). An existing file at path is replaced without
// prompting.
func (w *Writer) WriteFile(m *Manifest, path string) error {
	text, err := w.Serialize(m)
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	if err := utils.AtomicWriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	return nil
}
