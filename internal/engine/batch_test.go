package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoxJoints/internal/importer"
	"github.com/piwi3910/BoxJoints/internal/model"
)

func testJobs(n int) []importer.Job {
	jobs := make([]importer.Job, n)
	for i := range jobs {
		p := model.DefaultParameters()
		p.FingerCount = 2 + i%5
		jobs[i] = importer.Job{Name: fmt.Sprintf("job %d", i), Row: i + 2, Params: p}
	}
	return jobs
}

func TestRunBatch_KeepsOrder(t *testing.T) {
	jobs := testJobs(23)
	results := RunBatch(context.Background(), jobs, 4)

	require.Len(t, results, len(jobs))
	for i, r := range results {
		assert.Equal(t, jobs[i].Name, r.Job.Name)
		require.NoError(t, r.Err, r.Job.Name)
		require.NotNil(t, r.Program)
		assert.Equal(t, jobs[i].Params.FingerCount, r.Geometry.FingerCount)
	}
}

func TestRunBatch_MatchesSequentialOutput(t *testing.T) {
	jobs := testJobs(6)
	parallel := RunBatch(context.Background(), jobs, 0)
	serial := RunBatch(context.Background(), jobs, 1)
	for i := range jobs {
		assert.Equal(t, serial[i].Program.String(), parallel[i].Program.String())
	}
}

func TestRunBatch_ReportsJobErrors(t *testing.T) {
	jobs := testJobs(3)
	jobs[1].Params.FingerCount = 20

	results := RunBatch(context.Background(), jobs, 2)
	assert.NoError(t, results[0].Err)
	assert.True(t, errors.Is(results[1].Err, model.ErrToolTooLarge))
	assert.Nil(t, results[1].Program)
	assert.NoError(t, results[2].Err)
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunBatch(ctx, testJobs(5), 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Nil(t, r.Program)
	}
}

func TestRunBatch_Empty(t *testing.T) {
	assert.Empty(t, RunBatch(context.Background(), nil, 3))
}
