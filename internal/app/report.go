package app

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

// RunReport is the YAML summary written at the end of a pipeline run.
type RunReport struct {
	GeneratedAt time.Time            `yaml:"generated_at"`
	InputDir    string               `yaml:"input_dir"`
	Workspace   string               `yaml:"workspace"`
	Image       string               `yaml:"image"`
	Mode        string               `yaml:"mode"`
	Samples     []string             `yaml:"samples"`
	Stages      []domain.StageResult `yaml:"stages"`
}

// WriteReport serializes the report and writes it atomically.
func WriteReport(r *RunReport, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(path); err != nil {
		return err
	}
	return utils.AtomicWriteFile(path, data, 0644)
}
