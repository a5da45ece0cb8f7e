package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoxJoints/internal/engine"
	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/importer"
	"github.com/piwi3910/BoxJoints/internal/model"
)

func TestSaveProgram(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	params := model.DefaultParameters()
	prog, _, err := gcode.Generate(params)
	require.NoError(t, err)

	path, err := SaveProgram(dir, prog, params, model.UnitsMetric)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "BoxJoint_A_X_BT-19_BW-100_FC-4_DPP-3.nc"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, prog.String()+"\n", string(data))
	assert.True(t, strings.HasSuffix(string(data), "M30\n"))
}

func TestWriteProgramOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "joint.nc")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 100000)), 0644))

	prog := gcode.NewProgram()
	prog.End()
	require.NoError(t, WriteProgram(path, prog))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "M30\n", string(data))
}

func TestSaveBatch(t *testing.T) {
	dir := t.TempDir()
	params := model.DefaultParameters()
	bad := params
	bad.ToolDiameter = 50

	jobs := []importer.Job{
		{Name: "drawer", Row: 2, Params: params},
		{Name: "drawer again", Row: 3, Params: params},
		{Name: "too big", Row: 4, Params: bad},
	}
	results := engine.RunBatch(context.Background(), jobs, 2)
	require.Error(t, results[2].Err)

	paths, err := SaveBatch(dir, results, model.UnitsMetric)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "BoxJoint_A_X_BT-19_BW-100_FC-4_DPP-3.nc"), paths[0])
	assert.Equal(t, filepath.Join(dir, "BoxJoint_A_X_BT-19_BW-100_FC-4_DPP-3_2.nc"), paths[1])
	assert.Empty(t, paths[2])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSaveBatch_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "BoxJoint_A_X_BT-19_BW-100_FC-4_DPP-3.nc")
	require.NoError(t, os.WriteFile(existing, []byte("earlier run\n"), 0644))

	jobs := []importer.Job{{Name: "drawer", Row: 2, Params: model.DefaultParameters()}}
	paths, err := SaveBatch(dir, engine.RunBatch(context.Background(), jobs, 1), model.UnitsMetric)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "BoxJoint_A_X_BT-19_BW-100_FC-4_DPP-3_2.nc"), paths[0])

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "earlier run\n", string(data))
}

func TestUniqueName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "a.nc", uniqueName("a.nc", used))
	assert.Equal(t, "a_2.nc", uniqueName("a.nc", used))
	assert.Equal(t, "A_3.nc", uniqueName("A.nc", used))
	assert.Equal(t, "b.nc", uniqueName("b.nc", used))
}
