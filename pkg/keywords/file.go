package keywords

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type file struct {
	Keywords []string `yaml:"keywords"`
}

// Load reads a keyword table from a YAML file of the form
//
//	keywords:
//	  - Lastschrift
//	  - Gutschrift
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	t, err := New(f.Keywords...)
	if err != nil {
		return nil, fmt.Errorf("keyword file %s: %w", path, err)
	}
	return t, nil
}
