// Package compute provides the two evaluation adapters behind live
// notebook fields: a numeric expression evaluator and a symbolic (CAS)
// evaluator. Both are pure functions of their arguments with no shared
// mutable state and are safe to call concurrently; input debouncing is the
// caller's job.
//
// The empty-input contracts intentionally differ: the numeric evaluator
// returns nil result and nil error, the symbolic evaluator returns empty
// strings. This asymmetry is preserved from the shipped product pending
// clarification; do not unify it.
package compute

import (
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// precision is the number of significant digits in formatted numeric
// results, fixed so output stays stable across runs.
const precision = 10

// NumericResult is the outcome of a numeric evaluation. Exactly one of
// Result/Error is set on a non-blank input; both are nil for blank input.
type NumericResult struct {
	Result *string `json:"result"`
	Error  *string `json:"error"`
}

// Numeric evaluates free-form arithmetic/function expressions.
type Numeric struct {
	env map[string]any
}

// NewNumeric creates the numeric evaluator with the standard math
// environment (trig, logarithms, powers, pi, e).
func NewNumeric() *Numeric {
	return &Numeric{env: map[string]any{
		"pi":    math.Pi,
		"e":     math.E,
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
		"ln":    math.Log,
		"log":   math.Log10,
		"log2":  math.Log2,
		"exp":   math.Exp,
		"pow":   math.Pow,
		"hypot": math.Hypot,
		"mod":   math.Mod,
	}}
}

// Evaluate runs one expression. Blank input yields {nil, nil} — no error
// is surfaced for an empty field.
func (n *Numeric) Evaluate(expression string) NumericResult {
	if strings.TrimSpace(expression) == "" {
		return NumericResult{}
	}

	out, err := expr.Eval(expression, n.env)
	if err != nil {
		return errResult(err.Error())
	}

	s, err2 := formatValue(out)
	if err2 != "" {
		return errResult(err2)
	}
	return NumericResult{Result: &s}
}

func errResult(msg string) NumericResult {
	if msg == "" {
		msg = "evaluation error"
	}
	return NumericResult{Error: &msg}
}

// formatValue renders an evaluation result with fixed precision. Division
// by zero and domain errors come back from the engine as Inf/NaN floats;
// they are reported as errors rather than printed literally.
func formatValue(v any) (string, string) {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return "", "undefined result"
		}
		return strconv.FormatFloat(x, 'g', precision, 64), ""
	case float32:
		return formatValue(float64(x))
	case int:
		return strconv.Itoa(x), ""
	case int64:
		return strconv.FormatInt(x, 10), ""
	case bool:
		return strconv.FormatBool(x), ""
	case string:
		return x, ""
	default:
		return "", "unsupported result type"
	}
}
