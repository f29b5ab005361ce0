package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FormatsOverride is the optional yaml file narrowing or reordering the
// enabled extensions without editing the main XML config. Layout:
//
//	formats:
//	  - pdf
//	  - docx
type FormatsOverride struct {
	Formats []string `yaml:"formats"`
}

// LoadFormatsOverride reads a formats yaml file. A missing file is not an
// error and returns nil; the XML allow-list stays in effect.
func LoadFormatsOverride(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read formats override: %w", err)
	}

	var override FormatsOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse formats override: %w", err)
	}
	if len(override.Formats) == 0 {
		return nil, fmt.Errorf("formats override %s lists no formats", path)
	}

	return override.Formats, nil
}
