package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML document shape for an external catalog.
type catalogFile struct {
	LoanTypes []LoanType `yaml:"loan_types"`
}

// LoadFile reads a YAML catalog file and builds a validated Registry from
// it. The file replaces the built-in table entirely.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	reg, err := NewRegistry(doc.LoanTypes)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return reg, nil
}
