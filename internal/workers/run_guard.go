package workers

import (
	"context"
	"sync/atomic"

	"poalerts/config"

	"golang.org/x/sync/singleflight"
)

const runKey = "report-run"

// RunGuard lets at most one pipeline run execute at a time.
//
// With the skip policy a call made while a run is in flight returns
// ErrRunInProgress immediately. With the join policy the call waits for the
// in-flight run and receives its result; the joining caller's context is not
// used by that run.
type RunGuard struct {
	runner   Runner
	policy   string
	inFlight atomic.Bool
	group    singleflight.Group
}

func NewRunGuard(runner Runner, policy string) *RunGuard {
	if policy != config.OverlapJoin {
		policy = config.OverlapSkip
	}
	return &RunGuard{runner: runner, policy: policy}
}

func (g *RunGuard) Run(ctx context.Context) (RunResult, error) {
	if g.policy == config.OverlapSkip {
		if !g.inFlight.CompareAndSwap(false, true) {
			return RunResult{}, ErrRunInProgress
		}
		defer g.inFlight.Store(false)
		return g.runner.Run(ctx)
	}

	v, err, _ := g.group.Do(runKey, func() (interface{}, error) {
		g.inFlight.Store(true)
		defer g.inFlight.Store(false)
		return g.runner.Run(ctx)
	})
	res, _ := v.(RunResult)
	return res, err
}

// InFlight reports whether a run is executing.
func (g *RunGuard) InFlight() bool {
	return g.inFlight.Load()
}
