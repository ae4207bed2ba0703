package vm

import "strings"

// comparisonOperators are tried in this order. Two-character operators come
// before their one-character prefixes so that "x>=5" splits on ">=".
var comparisonOperators = []string{"==", "!=", ">=", "<=", ">", "<"}

// SplitCondition splits a comparison expression at the first occurrence of
// the first operator (in priority order) that appears anywhere in it.
// Both sides are trimmed. ok is false when no operator is present.
func SplitCondition(cond string) (left, op, right string, ok bool) {
	for _, candidate := range comparisonOperators {
		if i := strings.Index(cond, candidate); i >= 0 {
			left = strings.TrimSpace(cond[:i])
			right = strings.TrimSpace(cond[i+len(candidate):])
			return left, candidate, right, true
		}
	}
	return "", "", "", false
}

// Compare applies a comparison operator to two numbers.
// Unknown operators compare false.
func Compare(op string, left, right float64) bool {
	switch op {
	case "==":
		return left == right
	case "!=":
		return left != right
	case ">=":
		return left >= right
	case "<=":
		return left <= right
	case ">":
		return left > right
	case "<":
		return left < right
	default:
		return false
	}
}

// EvaluateCondition evaluates "LEFT OP RIGHT" against the store.
// A condition without a recognized operator is false.
func EvaluateCondition(s *Store, cond string) bool {
	result, _ := evaluateCondition(cond, s.NumericValue)
	return result
}

// evaluateCondition splits cond and compares both sides after resolving
// them with resolve. ok is false when cond has no operator.
func evaluateCondition(cond string, resolve func(string) float64) (result, ok bool) {
	left, op, right, ok := SplitCondition(cond)
	if !ok {
		return false, false
	}
	return Compare(op, resolve(left), resolve(right)), true
}
