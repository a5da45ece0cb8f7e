package model

// maxRecentExports caps the recent exports list.
const maxRecentExports = 10

// AppConfig holds application-wide preferences and the last-used joint.
type AppConfig struct {
	Units          Units           `json:"units"`           // Display units: "metric" or "imperial"
	LastParameters JointParameters `json:"last_parameters"` // Always stored in mm
	OutputDir      string          `json:"output_dir"`      // Default directory for exported programs
	RapidRate      float64         `json:"rapid_rate"`      // mm/min, used for cycle time estimates

	RecentExports []string `json:"recent_exports"`
	Theme         string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Units:          UnitsMetric,
		LastParameters: DefaultParameters(),
		RapidRate:      5000,
		RecentExports:  []string{},
		Theme:          "system",
	}
}

// Remember stores canonical parameters as the next session's starting point.
func (c *AppConfig) Remember(p JointParameters) {
	c.LastParameters = p
}

// AddRecentExport moves path to the front of the recent list.
func (c *AppConfig) AddRecentExport(path string) {
	recent := []string{path}
	for _, r := range c.RecentExports {
		if r != path {
			recent = append(recent, r)
		}
	}
	if len(recent) > maxRecentExports {
		recent = recent[:maxRecentExports]
	}
	c.RecentExports = recent
}

// Normalize fills zero values left by older or hand-edited config files.
func (c *AppConfig) Normalize() {
	defaults := DefaultAppConfig()
	if c.Units != UnitsMetric && c.Units != UnitsImperial {
		c.Units = defaults.Units
	}
	if c.RapidRate <= 0 {
		c.RapidRate = defaults.RapidRate
	}
	if c.RecentExports == nil {
		c.RecentExports = []string{}
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.LastParameters.Validate() != nil {
		c.LastParameters = defaults.LastParameters
	}
}
