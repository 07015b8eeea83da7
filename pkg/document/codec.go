package document

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"
)

// DecodeJSON parses a JSON document into a map node. JSON comments and
// trailing commas are tolerated so deployer-authored files can be annotated.
func DecodeJSON(data []byte) (Map, error) {
	var raw any
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return toMap(raw)
}

// DecodeYAML parses a YAML document into a map node.
func DecodeYAML(data []byte) (Map, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if raw == nil {
		return make(Map), nil
	}
	return toMap(raw)
}

// EncodeJSON serializes a node as compact JSON.
func EncodeJSON(n Node) ([]byte, error) {
	data, err := json.Marshal(ToAny(n))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// EncodeYAML serializes a node as YAML.
func EncodeYAML(n Node) ([]byte, error) {
	data, err := yaml.Marshal(ToAny(n))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func toMap(raw any) (Map, error) {
	if raw == nil {
		return make(Map), nil
	}
	node, err := FromAny(raw)
	if err != nil {
		return nil, err
	}
	m, ok := node.(Map)
	if !ok {
		return nil, fmt.Errorf("document root must be an object, got %T", node)
	}
	return m, nil
}
