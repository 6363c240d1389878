package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// TOML is a koanf parser backed by BurntSushi/toml.
type TOML struct{}

// TOMLParser returns a koanf.Parser for TOML documents.
func TOMLParser() *TOML { return &TOML{} }

// Unmarshal parses TOML bytes into a nested map.
func (p *TOML) Unmarshal(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (p *TOML) Marshal(o map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
