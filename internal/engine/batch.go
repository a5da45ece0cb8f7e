package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/piwi3910/BoxJoints/internal/gcode"
	"github.com/piwi3910/BoxJoints/internal/importer"
	"github.com/piwi3910/BoxJoints/internal/model"
)

// BatchResult is the outcome of one batch job.
type BatchResult struct {
	Job      importer.Job
	Program  *gcode.Program
	Geometry model.JointGeometry
	Err      error
}

// RunBatch generates a program for every job using up to workers
// goroutines (GOMAXPROCS when workers <= 0). Results keep the job order.
// Jobs not started before ctx is cancelled report ctx.Err().
func RunBatch(ctx context.Context, jobs []importer.Job, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]BatchResult, len(jobs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				job := jobs[i]
				if err := ctx.Err(); err != nil {
					results[i] = BatchResult{Job: job, Err: err}
					continue
				}
				prog, geom, err := gcode.Generate(job.Params)
				results[i] = BatchResult{Job: job, Program: prog, Geometry: geom, Err: err}
			}
		}()
	}

	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
