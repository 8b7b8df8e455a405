package tools

import (
	"encoding/json"
	"fmt"
	"os"
)

// Specification describes a callable tool in the form the model consumes.
// It matches one entry of the tool specification file.
type Specification struct {
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
	Required    []string   `json:"required,omitempty"`
}

type Parameters struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// LoadSpecifications reads the tool specification file: an ordered JSON list
// of function declarations. The order in the file is the registration order.
func LoadSpecifications(path string) ([]Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool specifications: %w", err)
	}

	var specs []Specification
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse tool specifications: %w", err)
	}

	for i, spec := range specs {
		if spec.Type != "function" {
			return nil, fmt.Errorf("tool specification %d: unsupported type %q", i, spec.Type)
		}
		if spec.Name == "" {
			return nil, fmt.Errorf("tool specification %d: missing name", i)
		}
	}

	return specs, nil
}
