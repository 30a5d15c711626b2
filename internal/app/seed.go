package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/atvirokodosprendimai/travelapi/internal/core/schema"
)

var ErrEmptySeed = errors.New("seed file contains no destinations")

type seedFile struct {
	Destinations []map[string]any `yaml:"destinations" json:"destinations"`
}

// LoadSeedFile reads destinations from a YAML or JSON file. The file holds
// either a top-level list or a mapping with a destinations key.
func LoadSeedFile(path string) ([]schema.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var rows []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		rows, err = decodeJSONSeed(data)
	default:
		rows, err = decodeYAMLSeed(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySeed
	}

	inputs := make([]schema.Input, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, schema.Input(row))
	}
	return inputs, nil
}

func decodeYAMLSeed(data []byte) ([]map[string]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var rows []map[string]any
		if err := node.Decode(&rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	var file seedFile
	if err := node.Decode(&file); err != nil {
		return nil, err
	}
	return file.Destinations, nil
}

func decodeJSONSeed(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []map[string]any
		if err := decoder.Decode(&rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	var file seedFile
	if err := decoder.Decode(&file); err != nil {
		return nil, err
	}
	return file.Destinations, nil
}
