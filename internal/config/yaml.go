package config

import (
	"gopkg.in/yaml.v3"
)

// YAMLParser is a koanf.Parser backed by yaml.v3.
type YAMLParser struct{}

// YAML returns the parser used for stacv.yml.
func YAML() *YAMLParser {
	return &YAMLParser{}
}

func (p *YAMLParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func (p *YAMLParser) Marshal(o map[string]any) ([]byte, error) {
	return yaml.Marshal(o)
}
