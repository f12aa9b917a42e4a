package workerpool_test

import (
	"sync/atomic"
	"testing"

	"github.com/glyphwatch/clnp/workerpool"
)

func TestRunExecutesEveryJob(t *testing.T) {
	const n = 50
	var count int64
	jobs := make([]func(), n)
	for i := range jobs {
		jobs[i] = func() { atomic.AddInt64(&count, 1) }
	}

	workerpool.Run(4, jobs)

	if count != n {
		t.Errorf("executed %d jobs, want %d", count, n)
	}
}

func TestRunZeroJobsDoesNotBlock(t *testing.T) {
	workerpool.Run(4, nil)
}

func TestRunWorkerCountLargerThanJobs(t *testing.T) {
	var count int64
	jobs := []func(){
		func() { atomic.AddInt64(&count, 1) },
		func() { atomic.AddInt64(&count, 1) },
	}
	workerpool.Run(100, jobs)
	if count != 2 {
		t.Errorf("executed %d jobs, want 2", count)
	}
}

func TestRunNonPositiveWorkerCountStillRuns(t *testing.T) {
	var count int64
	jobs := []func(){func() { atomic.AddInt64(&count, 1) }}
	workerpool.Run(0, jobs)
	if count != 1 {
		t.Errorf("executed %d jobs, want 1", count)
	}
}
