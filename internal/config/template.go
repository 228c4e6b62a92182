package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

//go:embed board_template.yaml
var defaultBoardTemplate []byte

// BoardTemplate models the YAML file listing the columns of new boards.
type BoardTemplate struct {
	Columns []ColumnTemplate `yaml:"columns"`
}

// ColumnTemplate is one column entry of the template.
type ColumnTemplate struct {
	Name     string `yaml:"name"`
	Stage    string `yaml:"stage"`
	SLAHours *int   `yaml:"sla_hours"`
	WIPLimit *int   `yaml:"wip_limit"`
}

// LoadBoardTemplate reads a template file. An empty path loads the embedded default.
func LoadBoardTemplate(path string) (*BoardTemplate, error) {
	if path == "" {
		return ParseBoardTemplate(defaultBoardTemplate)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board template %s: %w", path, err)
	}
	return ParseBoardTemplate(data)
}

// DefaultBoardTemplate returns the embedded template.
func DefaultBoardTemplate() *BoardTemplate {
	tpl, err := ParseBoardTemplate(defaultBoardTemplate)
	if err != nil {
		panic(fmt.Sprintf("embedded board template is invalid: %v", err))
	}
	return tpl
}

// ParseBoardTemplate decodes and validates template YAML. Every stage label
// must map to the closed stage vocabulary.
func ParseBoardTemplate(data []byte) (*BoardTemplate, error) {
	var tpl BoardTemplate
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("parse board template: %w", err)
	}
	if _, err := tpl.ColumnSpecs(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ColumnSpecs converts the template into validated column specs.
func (t *BoardTemplate) ColumnSpecs() ([]domain.ColumnSpec, error) {
	specs := make([]domain.ColumnSpec, 0, len(t.Columns))
	for _, c := range t.Columns {
		stage, err := domain.ParseStageKey(c.Stage)
		if err != nil {
			return nil, fmt.Errorf("board template column %q: %w", c.Name, err)
		}
		specs = append(specs, domain.ColumnSpec{
			Name:     c.Name,
			StageKey: stage,
			SLAHours: c.SLAHours,
			WIPLimit: c.WIPLimit,
		})
	}
	candidate := domain.BoardSpec{AreaKey: "template", Columns: specs}
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("board template: %w", err)
	}
	return specs, nil
}
