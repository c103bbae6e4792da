package eligibility

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/yojana/rules"
)

// apply evaluates rule against a known profile value.
func apply(rule rules.AtomicRule, actual any) (bool, error) {
	op := rule.Operator
	switch op {
	case rules.OpGte, rules.OpLte, rules.OpGt, rules.OpLt:
		a, ok := toNumber(actual)
		if !ok {
			return false, &TypeMismatchError{Field: rule.Field, Operator: op.String(), Value: actual, Want: "number"}
		}
		b, ok := toNumber(rule.Value)
		if !ok {
			return false, &TypeMismatchError{Field: rule.Field, Operator: op.String(), Value: rule.Value, Want: "number"}
		}
		switch op {
		case rules.OpGte:
			return a >= b, nil
		case rules.OpLte:
			return a <= b, nil
		case rules.OpGt:
			return a > b, nil
		default:
			return a < b, nil
		}

	case rules.OpEq, rules.OpNe:
		eq, ok := equal(actual, rule.Value)
		if !ok {
			return false, &TypeMismatchError{Field: rule.Field, Operator: op.String(), Value: actual, Want: fmt.Sprintf("%T", rule.Value)}
		}
		if op == rules.OpNe {
			return !eq, nil
		}
		return eq, nil

	case rules.OpIn, rules.OpNotIn:
		set, ok := toSet(rule.Value)
		if !ok {
			return false, &TypeMismatchError{Field: rule.Field, Operator: op.String(), Value: rule.Value, Want: "set"}
		}
		member := false
		for _, elem := range set {
			if eq, ok := equal(actual, elem); ok && eq {
				member = true
				break
			}
		}
		if op == rules.OpNotIn {
			return !member, nil
		}
		return member, nil

	default:
		return false, fmt.Errorf("%w: %d", ErrUnsupportedOperator, op)
	}
}

// equal compares two scalars. Numbers (including numeric strings) compare by
// value, other strings and booleans compare exactly. ok is false when the
// two values are not comparable.
func equal(a, b any) (eq bool, ok bool) {
	if x, okA := toNumber(a); okA {
		if y, okB := toNumber(b); okB {
			return x == y, true
		}
	}
	switch x := a.(type) {
	case string:
		if y, isStr := b.(string); isStr {
			return x == y, true
		}
	case bool:
		if y, isBool := b.(bool); isBool {
			return x == y, true
		}
	}
	return false, false
}

// toNumber coerces integers, floats, json.Number and numeric strings.
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// toSet accepts the set literal shapes produced by YAML, JSON and Go callers.
func toSet(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	}
	return nil, false
}
