package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// checkResult is the outcome for one file of a check run.
type checkResult struct {
	path       string
	skins      int
	joints     int
	mismatches int
	err        error
}

// newPool is replaced in tests to observe the pool lifecycle.
var newPool = worker.NewDynamicWorkerPool

// check loads every file on the worker pool and validates all of its skins.
// Each task owns its document; results are written to the task's own slot.
func (a *app) check(paths []string) error {
	workers := max(a.cfg.Check.Workers, 1)
	pool := newPool(workers, 256, 1*time.Second)
	defer pool.Stop()

	results := make([]checkResult, len(paths))

	// pool.Wait() tracks worker exits, not finished tasks, so a WaitGroup is the barrier.
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		id := i
		p := path
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				results[id] = a.checkFile(p)
				return nil, results[id].err
			},
		})
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			fmt.Fprintf(a.stdout, "%s %s: %v\n", a.style.failure("FAIL"), r.path, r.err)
		case r.mismatches > 0:
			failed++
			fmt.Fprintf(a.stdout, "%s %s: %d/%d joints mismatched in %d skins\n",
				a.style.failure("FAIL"), r.path, r.mismatches, r.joints, r.skins)
		default:
			fmt.Fprintf(a.stdout, "%s   %s: %d skins, %d joints\n", a.style.ok("ok"), r.path, r.skins, r.joints)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func (a *app) checkFile(path string) checkResult {
	res := checkResult{path: path}
	doc, err := a.loader.Load(path)
	if err != nil {
		a.logger.Warn("check load failed", "path", path, "err", err)
		res.err = err
		return res
	}
	for i := range doc.GLTF.Skins {
		r, err := a.validator.Validate(doc.GLTF, doc.Buffers, doc.Hierarchy, i)
		if err != nil {
			res.err = err
			return res
		}
		res.skins++
		res.joints += len(r.Joints)
		res.mismatches += r.Mismatches()
	}
	a.logger.Debug("checked", "path", path, "skins", res.skins, "mismatches", res.mismatches)
	return res
}
