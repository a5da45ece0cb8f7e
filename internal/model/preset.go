package model

import (
	"time"

	"github.com/google/uuid"
)

// JointPreset is a named, reusable set of joint parameters.
type JointPreset struct {
	ID          string          `json:"id" toml:"id" yaml:"id"`
	Name        string          `json:"name" toml:"name" yaml:"name"`
	Description string          `json:"description" toml:"description" yaml:"description"`
	CreatedAt   string          `json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt   string          `json:"updated_at" toml:"updated_at" yaml:"updated_at"`
	Parameters  JointParameters `json:"parameters" toml:"parameters" yaml:"parameters"` // mm
}

// NewJointPreset creates a preset with a fresh short ID.
func NewJointPreset(name, description string, params JointParameters) JointPreset {
	now := time.Now().UTC().Format(time.RFC3339)
	return JointPreset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Parameters:  params,
	}
}

// PresetStore holds a collection of presets.
type PresetStore struct {
	Presets []JointPreset `json:"presets"`
}

// NewPresetStore creates an empty preset store.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []JointPreset{},
	}
}

// Add adds a preset to the store.
func (ps *PresetStore) Add(p JointPreset) {
	ps.Presets = append(ps.Presets, p)
}

// Update replaces the parameters of the preset with the given ID.
// Returns false if no such preset exists.
func (ps *PresetStore) Update(id string, params JointParameters) bool {
	p := ps.FindByID(id)
	if p == nil {
		return false
	}
	p.Parameters = params
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return true
}

// Remove removes a preset by ID. Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *JointPreset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *JointPreset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns a list of preset names for UI dropdowns.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}
