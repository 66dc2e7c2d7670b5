// Package engine evaluates shape scripts. It wraps zygomys in a sandboxed
// environment, registers the shape DSL builtins and collects the parts the
// script defines into a scene.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/Nelarius/Morphoviewer/pkg/kernel"
	"github.com/Nelarius/Morphoviewer/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal error in user code, such as a parse error or a
// builtin rejecting its arguments.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates shape scripts against a geometry kernel.
// It is safe for concurrent use; every Evaluate call gets a fresh sandbox.
type Engine struct {
	kernel kernel.Kernel

	mu         sync.Mutex
	generation uint64
}

// NewEngine returns an Engine that builds solids with k.
func NewEngine(k kernel.Kernel) *Engine {
	return &Engine{kernel: k}
}

// Evaluate runs source and returns the scene it defines.
//
// Return semantics:
//   - On success: scene + nil errors + nil error
//   - On parse/eval failure: nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		sc, evalErrs, err := e.evaluate(source, stop)
		ch <- evalResult{scene: sc, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, e.currentGeneration)
}

// evaluate runs source in a fresh sandbox. Once stop is closed every
// function call in the script fails, which unwinds loops left running
// after Evaluate has given up on them.
func (e *Engine) evaluate(source string, stop <-chan struct{}) (*scene.Scene, []EvalError, error) {
	sc := scene.New()
	if strings.TrimSpace(source) == "" {
		return sc, nil, nil
	}
	if e.kernel == nil {
		return nil, nil, fmt.Errorf("engine: no geometry kernel configured")
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispWithFuncs(interruptible(zygo.SandboxSafeFunctions(), stop))
	defer env.Stop()

	registerBuiltins(env, e.kernel, sc, stop)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return sc, nil, nil
}

// linePattern matches "Error on line N: ..." as zygomys reports it.
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*`)

// linePatternShort matches the bare "line N: ..." form.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*`)

// parseZygomysError turns a zygomys error into EvalErrors. When the message
// carries a line marker it is lifted into Line and cut from the text.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if loc := re.FindStringSubmatchIndex(msg); loc != nil {
			line, _ := strconv.Atoi(msg[loc[2]:loc[3]])
			text := strings.TrimSpace(msg[:loc[0]] + msg[loc[1]:])
			return []EvalError{{Line: line, Message: text}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
