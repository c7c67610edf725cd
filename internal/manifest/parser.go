package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
)

// Parse reads a serialized manifest back into records. The format is
// detected from the header line, so a manifest written by Writer always
// round-trips regardless of the configured format.
func Parse(r io.Reader) (*Manifest, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("manifest is empty")
	}
	header := scanner.Text()

	sep, err := detectDelimiter(header)
	if err != nil {
		return nil, err
	}

	m := &Manifest{}
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, sep)
		if len(fields) != len(headerColumns) {
			return nil, fmt.Errorf("manifest line %d: expected %d fields, got %d",
				line, len(headerColumns), len(fields))
		}
		direction := domain.Direction(fields[2])
		if !direction.IsValid() {
			return nil, fmt.Errorf("manifest line %d: unknown direction %q", line, fields[2])
		}
		m.Records = append(m.Records, domain.SampleRecord{
			SampleID:  fields[0],
			FilePath:  fields[1],
			Direction: direction,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseFile opens and parses a manifest file.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// detectDelimiter matches the header against the two known formats.
func detectDelimiter(header string) (string, error) {
	for _, f := range []Format{FormatCSVLegacy, FormatTSVV2} {
		sep, _ := f.Delimiter()
		if header == strings.Join(headerColumns, sep) {
			return sep, nil
		}
	}
	return "", fmt.Errorf("unrecognized manifest header: %q", header)
}
