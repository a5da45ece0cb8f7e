package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/BoxJoints/internal/model"
)

// DefaultPresetPath returns the default file path for the preset store.
// This is located at ~/.boxjoints/presets.json.
func DefaultPresetPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	return writeJSON(path, store)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewPresetStore(), nil
		}
		return model.PresetStore{}, err
	}
	var store model.PresetStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.PresetStore{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if store.Presets == nil {
		store.Presets = []model.JointPreset{}
	}
	return store, nil
}

// PresetFormat is the encoding of an exported preset file.
type PresetFormat int

const (
	FormatJSON PresetFormat = iota
	FormatTOML
	FormatYAML
)

// FormatForPath picks the preset encoding from the file extension.
// Unknown extensions use JSON.
func FormatForPath(path string) PresetFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ExportPreset writes a single preset for sharing, encoded according to
// the file extension (see FormatForPath).
func ExportPreset(path string, preset model.JointPreset) error {
	var data []byte
	var err error
	switch FormatForPath(path) {
	case FormatTOML:
		data, err = toml.Marshal(preset)
	case FormatYAML:
		data, err = yaml.Marshal(preset)
	default:
		return writeJSON(path, preset)
	}
	if err != nil {
		return fmt.Errorf("failed to encode preset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportPreset reads a preset written by ExportPreset. The preset must
// carry a name and valid parameters; a missing ID is generated.
func ImportPreset(path string) (model.JointPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.JointPreset{}, fmt.Errorf("failed to read preset: %w", err)
	}
	var preset model.JointPreset
	switch FormatForPath(path) {
	case FormatTOML:
		err = toml.Unmarshal(data, &preset)
	case FormatYAML:
		err = yaml.Unmarshal(data, &preset)
	default:
		err = json.Unmarshal(data, &preset)
	}
	if err != nil {
		return model.JointPreset{}, fmt.Errorf("failed to parse preset: %w", err)
	}
	if strings.TrimSpace(preset.Name) == "" {
		return model.JointPreset{}, fmt.Errorf("invalid preset file: missing name")
	}
	if err := preset.Parameters.Validate(); err != nil {
		return model.JointPreset{}, fmt.Errorf("invalid preset %q: %w", preset.Name, err)
	}
	if preset.ID == "" {
		fresh := model.NewJointPreset(preset.Name, preset.Description, preset.Parameters)
		preset.ID = fresh.ID
		if preset.CreatedAt == "" {
			preset.CreatedAt, preset.UpdatedAt = fresh.CreatedAt, fresh.UpdatedAt
		}
	}
	return preset, nil
}
