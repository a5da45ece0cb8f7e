package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxJoints/internal/engine"
	"github.com/piwi3910/BoxJoints/internal/importer"
	"github.com/piwi3910/BoxJoints/internal/project"
)

// importBatch reads a CSV or Excel joint list and generates a program for
// every row into the output folder.
func (a *App) importBatch() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		result := importer.ImportFile(path, importer.Options{Base: a.params, Units: a.units})
		a.handleImportResult(result, func() { a.runBatch(result.Jobs) })
	}, a.window)
	d.Show()
}

// handleImportResult reports import problems and continues with proceed
// when at least one job was read.
func (a *App) handleImportResult(result importer.ImportResult, proceed func()) {
	if len(result.Errors) > 0 && len(result.Jobs) == 0 {
		dialog.ShowError(fmt.Errorf("import failed:\n%s", strings.Join(result.Errors, "\n")), a.window)
		return
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("Read %d joints.", len(result.Jobs)))
	if len(result.Warnings) > 0 {
		msg.WriteString("\n\nWarnings:\n" + strings.Join(result.Warnings, "\n"))
	}
	if len(result.Errors) > 0 {
		msg.WriteString(fmt.Sprintf("\n\n%d rows skipped:\n%s", len(result.Errors), strings.Join(result.Errors, "\n")))
	}
	dialog.ShowConfirm("Batch Import", msg.String()+"\n\nGenerate programs now?", func(ok bool) {
		if ok {
			proceed()
		}
	}, a.window)
}

// runBatch generates the jobs off the UI goroutine and shows a summary.
func (a *App) runBatch(jobs []importer.Job) {
	progress := dialog.NewCustomWithoutButtons("Generating",
		container.NewVBox(
			widget.NewLabel(fmt.Sprintf("Generating %d programs...", len(jobs))),
			widget.NewProgressBarInfinite(),
		), a.window)
	progress.Show()

	dir := a.outputDir()
	units := a.units
	go func() {
		results := engine.RunBatch(context.Background(), jobs, 0)
		paths, err := project.SaveBatch(dir, results, units)
		a.log.Info("batch finished", "jobs", len(jobs), "dir", dir, "err", err)

		fyne.Do(func() {
			progress.Hide()
			if err != nil {
				dialog.ShowError(err, a.window)
			}
			for _, p := range paths {
				if p != "" {
					a.config.AddRecentExport(p)
				}
			}
			a.showBatchResults(results, paths)
		})
	}()
}

func (a *App) showBatchResults(results []engine.BatchResult, paths []string) {
	header := container.NewGridWithColumns(3,
		widget.NewLabelWithStyle("Row", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Joint", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Result", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	rows := container.NewVBox(header, widget.NewSeparator())

	saved := 0
	for i, r := range results {
		status := "Failed: " + errorText(r.Err)
		if i < len(paths) && paths[i] != "" {
			status = paths[i]
			saved++
		}
		name := r.Job.Name
		if name == "" {
			name = "-"
		}
		result := widget.NewLabel(status)
		result.Wrapping = fyne.TextWrapBreak
		rows.Add(container.NewGridWithColumns(3,
			widget.NewLabel(fmt.Sprintf("%d", r.Job.Row)),
			widget.NewLabel(name),
			result,
		))
	}

	summary := widget.NewLabel(fmt.Sprintf("%d of %d programs saved to %s", saved, len(results), a.outputDir()))
	d := dialog.NewCustom("Batch Results", "Close",
		container.NewBorder(summary, nil, nil, nil, container.NewVScroll(rows)), a.window)
	d.Resize(fyne.NewSize(760, 460))
	d.Show()
}

func errorText(err error) string {
	if err == nil {
		return "not saved"
	}
	return strings.SplitN(err.Error(), "\n", 2)[0]
}
