// Package importer provides CSV and Excel import of batch joint lists.
// Each row describes one box joint. It supports automatic delimiter
// detection, flexible column mapping, and case-insensitive header
// recognition; columns the file leaves out take their value from a base
// parameter set.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BoxJoints/internal/model"
)

// Job is one joint read from a batch file.
type Job struct {
	Name   string
	Row    int                   // 1-based row in the source file
	Params model.JointParameters // mm
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Jobs     []Job
	Errors   []string
	Warnings []string
}

// Options control how row values become parameters.
type Options struct {
	Base  model.JointParameters // mm, supplies every column the file lacks
	Units model.Units           // Units of the length and feed columns
}

// DefaultOptions reads metric files on top of the default parameters.
func DefaultOptions() Options {
	return Options{Base: model.DefaultParameters(), Units: model.UnitsMetric}
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A negative index means the column is absent.
type ColumnMapping struct {
	Name         int
	Thickness    int
	Width        int
	Fingers      int
	Tool         int
	Tolerance    int
	Piece        int
	Orientation  int
	DepthPerPass int
	FeedRate     int
	Spindle      int
}

func emptyMapping() ColumnMapping {
	return ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
}

// positionalMapping is used for files without a header row.
func positionalMapping() ColumnMapping {
	return ColumnMapping{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

func (m *ColumnMapping) role(name string) *int {
	switch name {
	case "name":
		return &m.Name
	case "thickness":
		return &m.Thickness
	case "width":
		return &m.Width
	case "fingers":
		return &m.Fingers
	case "tool":
		return &m.Tool
	case "tolerance":
		return &m.Tolerance
	case "piece":
		return &m.Piece
	case "orientation":
		return &m.Orientation
	case "depth":
		return &m.DepthPerPass
	case "feed":
		return &m.FeedRate
	case "spindle":
		return &m.Spindle
	}
	return nil
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":        {"name", "label", "joint", "job", "description", "desc", "box"},
	"thickness":   {"thickness", "board thickness", "bt", "t", "stock thickness"},
	"width":       {"width", "board width", "bw", "w"},
	"fingers":     {"fingers", "finger count", "fc", "n", "count"},
	"tool":        {"tool", "bit", "bit diameter", "tool diameter", "diameter", "d"},
	"tolerance":   {"tolerance", "fit tolerance", "fit", "tol"},
	"piece":       {"piece", "pieces", "piece selection", "side"},
	"orientation": {"orientation", "axis", "direction"},
	"depth":       {"depth per pass", "dpp", "pass depth", "stepdown"},
	"feed":        {"feed", "feed rate", "feedrate", "f"},
	"spindle":     {"spindle", "rpm", "spindle speed", "s"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := newCSVReader(bytes.NewReader(data), delim).ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

func newCSVReader(r io.Reader, delim rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable field counts
	return reader
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a positional
// mapping (name, thickness, width, fingers, tool, tolerance, piece,
// orientation, depth per pass, feed, spindle) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := emptyMapping()

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if idx := mapping.role(role); *idx == -1 {
					*idx = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(), false
	}
	return mapping, true
}

// parsePiece accepts A, B, Both or AB in any case.
func parsePiece(s string) (model.PieceSelection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a":
		return model.SelectA, true
	case "b":
		return model.SelectB, true
	case "both", "ab", "a+b":
		return model.SelectBoth, true
	}
	return "", false
}

// parseOrientation accepts X or Y in any case.
func parseOrientation(s string) (model.Orientation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return model.OrientationX, true
	case "y":
		return model.OrientationY, true
	}
	return "", false
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow builds a Job from a row using the given column mapping.
// Returns the job, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, opts Options, rowLabel string, jobCount int) (Job, string, []string) {
	var warnings []string
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Joint %d", jobCount+1)
	}

	// Cells are read in the file's units on top of the base parameters.
	p := opts.Units.ToDisplay(opts.Base)

	floats := []struct {
		idx   int
		label string
		dst   *float64
	}{
		{mapping.Thickness, "board thickness", &p.BoardThickness},
		{mapping.Width, "board width", &p.BoardWidth},
		{mapping.Tool, "tool diameter", &p.ToolDiameter},
		{mapping.Tolerance, "fit tolerance", &p.FitTolerance},
		{mapping.DepthPerPass, "depth per pass", &p.DepthPerPass},
		{mapping.FeedRate, "feed rate", &p.FeedRate},
	}
	for _, f := range floats {
		s := getCell(row, f.idx)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Job{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.label, s), nil
		}
		*f.dst = v
	}

	ints := []struct {
		idx   int
		label string
		dst   *int
	}{
		{mapping.Fingers, "finger count", &p.FingerCount},
		{mapping.Spindle, "spindle speed", &p.SpindleSpeed},
	}
	for _, f := range ints {
		s := getCell(row, f.idx)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return Job{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.label, s), nil
		}
		*f.dst = v
	}

	if s := getCell(row, mapping.Piece); s != "" {
		if piece, ok := parsePiece(s); ok {
			p.PieceSelection = piece
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown piece '%s', using %s", rowLabel, s, p.PieceSelection))
		}
	}
	if s := getCell(row, mapping.Orientation); s != "" {
		if o, ok := parseOrientation(s); ok {
			p.Orientation = o
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown orientation '%s', using %s", rowLabel, s, p.Orientation))
		}
	}

	params := opts.Units.ToCanonical(p)
	if err := params.Validate(); err != nil {
		return Job{}, fmt.Sprintf("%s: %s", rowLabel, strings.ReplaceAll(err.Error(), "\n", "; ")), nil
	}
	geom, err := params.Geometry()
	if err != nil {
		return Job{}, fmt.Sprintf("%s: %v", rowLabel, err), nil
	}
	if err := geom.CheckToolFit(); err != nil {
		return Job{}, fmt.Sprintf("%s: %v", rowLabel, err), nil
	}

	return Job{Name: name, Params: params}, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports jobs from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, opts Options) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := newCSVReader(bytes.NewReader(data), delimiter).ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", opts, result.Warnings)
}

// ImportCSVFromReader imports jobs from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) ImportResult {
	records, err := newCSVReader(reader, delimiter).ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", opts, nil)
}

// ImportExcel imports jobs from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, opts Options) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", opts, nil)
}

// ImportFile picks the CSV or Excel reader by file extension.
func ImportFile(path string, opts Options) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path, opts)
	}
	return ImportCSV(path, opts)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a job.
func importFromRows(rows [][]string, rowPrefix string, opts Options, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Thickness == -1 {
			missing = append(missing, "Thickness")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// First column after the name is not numeric: an unrecognized header.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		job, errMsg, warnings := parseRow(row, mapping, opts, rowLabel, len(result.Jobs))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		job.Row = lineNum
		result.Jobs = append(result.Jobs, job)
	}

	if len(result.Jobs) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
