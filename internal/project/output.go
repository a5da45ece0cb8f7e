package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BoxJoints/internal/engine"
	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/model"
)

// SaveProgram writes prog into dir under its conventional file name and
// returns the full path. An empty dir uses DefaultOutputDir.
func SaveProgram(dir string, prog *gcode.Program, params model.JointParameters, units model.Units) (string, error) {
	if dir == "" {
		dir = DefaultOutputDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, gcode.Filename(params, units))
	if err := WriteProgram(path, prog); err != nil {
		return "", err
	}
	return path, nil
}

// WriteProgram writes prog to path, replacing any existing file.
func WriteProgram(path string, prog *gcode.Program) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if _, err := prog.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// SaveBatch writes every successful batch program into dir and returns
// the written paths in result order, with "" for failed jobs. A name that
// is already taken, by a file in dir or by an earlier job of the batch,
// gets a numeric suffix (_2, _3, ...) so no file is overwritten.
func SaveBatch(dir string, results []engine.BatchResult, units model.Units) ([]string, error) {
	if dir == "" {
		dir = DefaultOutputDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list output directory: %w", err)
	}
	used := map[string]bool{}
	for _, e := range entries {
		used[strings.ToLower(e.Name())] = true
	}

	paths := make([]string, len(results))
	for i, r := range results {
		if r.Err != nil || r.Program == nil {
			continue
		}
		name := uniqueName(gcode.Filename(r.Job.Params, units), used)
		path := filepath.Join(dir, name)
		if err := WriteProgram(path, r.Program); err != nil {
			return paths, err
		}
		paths[i] = path
	}
	return paths, nil
}

func uniqueName(name string, used map[string]bool) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
