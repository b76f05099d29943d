package matching

import (
	"encoding/json"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	programMu    sync.RWMutex
	programCache = make(map[string]*vm.Program)
)

// EvalBodyExpr evaluates an expr-lang expression against the request body,
// using a compile cache. The environment exposes "body" (the raw body as a
// string) and "json" (the body decoded as JSON, or nil when the body is not
// valid JSON). The expression matches only when it evaluates to true;
// compile and runtime errors are treated as no-match.
func EvalBodyExpr(expression string, body []byte) bool {
	program, err := compileBodyExpr(expression)
	if err != nil {
		return false
	}

	var decoded any
	_ = json.Unmarshal(body, &decoded)

	env := map[string]any{
		"body": string(body),
		"json": decoded,
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false
	}

	matched, ok := result.(bool)
	return ok && matched
}

func compileBodyExpr(expression string) (*vm.Program, error) {
	programMu.RLock()
	if program, ok := programCache[expression]; ok {
		programMu.RUnlock()
		return program, nil
	}
	programMu.RUnlock()

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	programMu.Lock()
	// Double-check in case another goroutine compiled the same expression.
	if existing, ok := programCache[expression]; ok {
		programMu.Unlock()
		return existing, nil
	}
	programCache[expression] = program
	programMu.Unlock()

	return program, nil
}
