package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/glycerine/zygomys/zygo"

	"github.com/Nelarius/Morphoviewer/pkg/scene"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// waitWithTimeout blocks until the evaluation tagged gen delivers on ch or
// EvalTimeout passes. A delivered result is dropped when current no longer
// reports gen, meaning a newer Evaluate call has started. A timed-out
// goroutine is stopped at its next function call through the stop channel
// Evaluate closes, and its late result lands unread in the buffered
// channel.
func waitWithTimeout(ch <-chan evalResult, gen uint64, current func() uint64) (*scene.Scene, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if current() != gen {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.scene, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}

// currentGeneration returns the tag of the most recent Evaluate call.
func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// ErrEvalCancelled is returned by script functions called after the
// evaluation was abandoned.
var ErrEvalCancelled = errors.New("evaluation cancelled")

// interruptible wraps every function in funcs so it returns
// ErrEvalCancelled once stop is closed.
func interruptible(funcs map[string]zygo.ZlispUserFunction, stop <-chan struct{}) map[string]zygo.ZlispUserFunction {
	out := make(map[string]zygo.ZlispUserFunction, len(funcs))
	for name, fn := range funcs {
		out[name] = guard(fn, stop)
	}
	return out
}

func guard(fn zygo.ZlispUserFunction, stop <-chan struct{}) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		select {
		case <-stop:
			return zygo.SexpNull, ErrEvalCancelled
		default:
		}
		return fn(env, name, args)
	}
}
