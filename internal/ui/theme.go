// Package ui provides the BoxJoints application UI components.
//
// This file defines a compact Fyne theme for the parameter dialog.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// BoxJointsTheme wraps the default Fyne theme with compact sizing overrides
// so the full parameter form fits beside the previews.
type BoxJointsTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewBoxJointsTheme creates a theme for a config theme name: "light",
// "dark" or anything else to follow the system.
func NewBoxJointsTheme(name string) *BoxJointsTheme {
	t := &BoxJointsTheme{base: theme.DefaultTheme()}
	t.SetName(name)
	return t
}

// SetName switches between light, dark and system variants.
func (t *BoxJointsTheme) SetName(name string) {
	switch name {
	case "light":
		t.variant, t.system = theme.VariantLight, false
	case "dark":
		t.variant, t.system = theme.VariantDark, false
	default:
		t.system = true
	}
}

// walnut is the accent used for primary buttons and selections.
var walnut = color.NRGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}

// Color delegates to the base theme, forcing the configured variant.
func (t *BoxJointsTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if !t.system {
		variant = t.variant
	}
	if name == theme.ColorNamePrimary {
		return walnut
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *BoxJointsTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *BoxJointsTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *BoxJointsTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
