package speech

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type contextFilePayload struct {
	Context ContextOptions `yaml:"speech_context"`
}

// LoadContextFile reads ContextOptions from the speech_context key of a
// YAML file.
func LoadContextFile(path string) (ContextOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ContextOptions{}, err
	}
	var payload contextFilePayload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return ContextOptions{}, fmt.Errorf("parse context file %s: %w", path, err)
	}
	return payload.Context, nil
}
