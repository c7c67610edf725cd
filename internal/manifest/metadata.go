package manifest

import (
	"fmt"
	"strings"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

// WriteMetadata writes a minimal sample-metadata TSV for the manifest's
// samples. Visualization stages (taxa barplot) require a metadata file; the
// generated one carries only the sample ids and can be extended by hand.
// Like WriteFile, it replaces an existing file atomically.
func WriteMetadata(m *Manifest, path string) error {
	var sb strings.Builder
	sb.WriteString("sample-id\tdescription\n")
	sb.WriteString("#q2:types\tcategorical\n")
	for _, id := range m.SampleIDs() {
		sb.WriteString(id)
		sb.WriteString("\t\n")
	}

	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	if err := utils.AtomicWriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}
	return nil
}
