package services

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

//go:embed prompts.yaml
var promptCatalogYAML []byte

const (
	ModeQuickScan        = "quick_scan"
	ModeDetailedAnalysis = "detailed_analysis"
	ModeImprovementPro   = "improvement_pro"
)

// PromptCatalog holds the analysis modes. It is read once and never
// modified; every accessor hands out copies.
type PromptCatalog struct {
	modes []models.AnalysisMode
	index map[string]int
}

type promptFile struct {
	Modes []models.AnalysisMode `yaml:"modes"`
}

// LoadPromptCatalog parses the catalog embedded in the binary.
func LoadPromptCatalog() (*PromptCatalog, error) {
	return ParsePromptCatalog(promptCatalogYAML)
}

func ParsePromptCatalog(data []byte) (*PromptCatalog, error) {
	var file promptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog: %w", err)
	}

	if len(file.Modes) == 0 {
		return nil, fmt.Errorf("prompt catalog has no modes")
	}

	catalog := &PromptCatalog{
		modes: make([]models.AnalysisMode, 0, len(file.Modes)),
		index: make(map[string]int, len(file.Modes)),
	}

	for i, mode := range file.Modes {
		if mode.Key == "" || mode.Title == "" {
			return nil, fmt.Errorf("prompt catalog entry %d is missing key or title", i)
		}
		if strings.TrimSpace(mode.Prompt) == "" {
			return nil, fmt.Errorf("prompt catalog entry %q has an empty prompt", mode.Key)
		}
		if _, dup := catalog.index[mode.Key]; dup {
			return nil, fmt.Errorf("duplicate mode key %q in prompt catalog", mode.Key)
		}
		catalog.index[mode.Key] = len(catalog.modes)
		catalog.modes = append(catalog.modes, mode.Clone())
	}

	return catalog, nil
}

// Get resolves a mode by key, or by title ignoring case.
func (c *PromptCatalog) Get(name string) (models.AnalysisMode, error) {
	if i, ok := c.index[name]; ok {
		return c.modes[i].Clone(), nil
	}
	for _, mode := range c.modes {
		if strings.EqualFold(mode.Title, strings.TrimSpace(name)) {
			return mode.Clone(), nil
		}
	}
	return models.AnalysisMode{}, &UnknownModeError{Mode: name}
}

// Modes returns every mode in catalog order.
func (c *PromptCatalog) Modes() []models.AnalysisMode {
	out := make([]models.AnalysisMode, len(c.modes))
	for i, mode := range c.modes {
		out[i] = mode.Clone()
	}
	return out
}

func (c *PromptCatalog) Keys() []string {
	keys := make([]string, len(c.modes))
	for i, mode := range c.modes {
		keys[i] = mode.Key
	}
	return keys
}
