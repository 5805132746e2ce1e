package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nagyistge/manta-madtom/internal/model"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatD2   = "d2"
)

// Renderer encodes a host list.
type Renderer interface {
	Render(hosts []model.Host) ([]byte, error)
}

// ForFormat returns the renderer of an output format.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return JSONRenderer{Indent: "  "}, nil
	case FormatYAML, "yml":
		return YAMLRenderer{}, nil
	case FormatD2:
		return &D2Renderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// JSONRenderer writes the inventory read by the health checker.
type JSONRenderer struct {
	Indent string
}

func (r JSONRenderer) Render(hosts []model.Host) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.Indent != "" {
		enc.SetIndent("", r.Indent)
	}
	if err := enc.Encode(model.NewInventory(hosts)); err != nil {
		return nil, fmt.Errorf("encoding inventory: %w", err)
	}
	return buf.Bytes(), nil
}

// YAMLRenderer writes the inventory with the same keys as JSON.
type YAMLRenderer struct{}

func (YAMLRenderer) Render(hosts []model.Host) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(model.NewInventory(hosts)); err != nil {
		return nil, fmt.Errorf("encoding inventory: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
