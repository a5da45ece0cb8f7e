package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoxJoints/internal/model"
)

func TestSaveAndLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	store := model.NewPresetStore()
	store.Add(model.NewJointPreset("Drawer", "12mm ply", model.DefaultParameters()))
	require.NoError(t, SavePresets(path, store))

	loaded, err := LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, loaded.Presets, 1)
	assert.Equal(t, store.Presets[0], loaded.Presets[0])
}

func TestLoadPresetsMissingFile(t *testing.T) {
	store, err := LoadPresets(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.NotNil(t, store.Presets)
	assert.Empty(t, store.Presets)
}

func TestLoadPresetsNullList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"presets":null}`), 0644))

	store, err := LoadPresets(path)
	require.NoError(t, err)
	assert.NotNil(t, store.Presets)
}

func TestExportImportPreset(t *testing.T) {
	params := model.DefaultParameters()
	params.PieceSelection = model.SelectBoth
	params.Orientation = model.OrientationY
	params.FitTolerance = 0.15
	params.MistCoolant = true
	preset := model.NewJointPreset("Chest", "walnut", params)

	for _, name := range []string{"chest.json", "chest.toml", "CHEST.TOML", "chest.yaml", "chest.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, ExportPreset(path, preset))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			switch FormatForPath(path) {
			case FormatTOML:
				assert.Regexp(t, `piece_selection = ['"]Both['"]`, string(data))
			case FormatYAML:
				assert.Contains(t, string(data), "piece_selection: Both")
			default:
				assert.True(t, strings.HasPrefix(string(data), "{"))
			}

			got, err := ImportPreset(path)
			require.NoError(t, err)
			assert.Equal(t, preset, got)
		})
	}
}

func TestImportPresetAssignsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.toml")
	content := `name = 'Shared'

[parameters]
board_thickness = 12.0
board_width = 150.0
finger_count = 6
tool_diameter = 6.0
fit_tolerance = 0.1
piece_selection = 'A'
orientation = 'X'
depth_per_pass = 4.0
feed_rate = 1200.0
spindle_speed = 16000
spindle_start_delay = 2.0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := ImportPreset(path)
	require.NoError(t, err)
	assert.Len(t, got.ID, 8)
	assert.NotEmpty(t, got.CreatedAt)
	assert.Equal(t, 6, got.Parameters.FingerCount)
	assert.Equal(t, 150.0, got.Parameters.BoardWidth)
}

func TestImportPresetRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.json")
	require.NoError(t, ExportPreset(noName, model.JointPreset{Parameters: model.DefaultParameters()}))
	_, err := ImportPreset(noName)
	assert.ErrorContains(t, err, "missing name")

	bad := model.NewJointPreset("Bad", "", model.DefaultParameters())
	bad.Parameters.FingerCount = 1
	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, ExportPreset(badPath, bad))
	_, err = ImportPreset(badPath)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	garbage := filepath.Join(dir, "garbage.toml")
	require.NoError(t, os.WriteFile(garbage, []byte("name = "), 0644))
	_, err = ImportPreset(garbage)
	assert.Error(t, err)

	_, err = ImportPreset(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("a.json"))
	assert.Equal(t, FormatJSON, FormatForPath("noext"))
	assert.Equal(t, FormatTOML, FormatForPath("a.Toml"))
	assert.Equal(t, FormatYAML, FormatForPath("/x/a.YML"))
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/abs/path.nc", ExpandPath("/abs/path.nc"))
	assert.NotContains(t, ExpandPath("~/BoxJoints"), "~")
}
