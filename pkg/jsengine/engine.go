// Package jsengine evaluates the JavaScript conditions suite files use to
// decide whether a suite applies to the current environment.
package jsengine

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/viscouspot/maestro-flowgen/pkg/logger"
)

// envIdent matches identifiers that look like environment variable names.
var envIdent = regexp.MustCompile(`\b[A-Z][A-Z0-9_]*\b`)

// Engine wraps a goja runtime preloaded with environment variables.
type Engine struct {
	runtime   *goja.Runtime
	variables map[string]interface{}
	mu        sync.Mutex
}

// New creates an engine. Each variable is a global and a property of the
// env object.
func New(vars map[string]string) *Engine {
	e := &Engine{
		runtime:   goja.New(),
		variables: make(map[string]interface{}),
	}
	e.setupConsole()

	env := e.runtime.NewObject()
	for k, v := range vars {
		_ = env.Set(k, v)
		e.SetVariable(k, v)
	}
	_ = e.runtime.Set("env", env)
	return e
}

// setupConsole routes console.log and friends to the flowgen log.
func (e *Engine) setupConsole() {
	makeConsoleFunc := func(log func(string, ...interface{})) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = fmt.Sprint(arg.Export())
			}
			log("js: %s", strings.Join(parts, " "))
			return goja.Undefined()
		}
	}

	console := e.runtime.NewObject()
	_ = console.Set("log", makeConsoleFunc(logger.Debug))
	_ = console.Set("warn", makeConsoleFunc(logger.Warn))
	_ = console.Set("error", makeConsoleFunc(logger.Error))
	_ = e.runtime.Set("console", console)
}

// SetVariable sets a variable accessible in JS as a global
func (e *Engine) SetVariable(name string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.variables[name] = value
	_ = e.runtime.Set(name, value)
}

// EvalBool evaluates expr with JavaScript truthiness. Upper-case
// identifiers that are not set evaluate to undefined instead of throwing.
func (e *Engine) EvalBool(expr string) (bool, error) {
	for _, name := range envIdent.FindAllString(expr, -1) {
		e.DefineUndefinedIfMissing(name)
	}
	v, err := e.run(expr)
	if err != nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

func (e *Engine) run(script string) (goja.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.runtime.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("JS eval error: %w", err)
	}
	return result, nil
}

// DefineUndefinedIfMissing defines a variable as undefined if it's not already defined.
func (e *Engine) DefineUndefinedIfMissing(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.variables[name]; exists {
		return
	}
	if val := e.runtime.Get(name); val == nil {
		_ = e.runtime.Set(name, goja.Undefined())
	}
}
