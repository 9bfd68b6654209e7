package engine

import "sync"

// Job is one document in a batch.
type Job struct {
	ID    string
	Lines []string
}

// BatchResult pairs a job with its analysis or error.
type BatchResult struct {
	ID       string
	Analysis *Analysis
	Err      error
}

// AnalyzeAll analyzes jobs with at most workers documents in flight.
// Results are in job order.
func (e *Engine) AnalyzeAll(jobs []Job, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(jobs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()
			sem <- struct{}{}        // acquire semaphore
			defer func() { <-sem }() // release semaphore
			a, err := e.Analyze(j.Lines)
			results[idx] = BatchResult{ID: j.ID, Analysis: a, Err: err}
		}(i, job)
	}

	wg.Wait()
	return results
}
