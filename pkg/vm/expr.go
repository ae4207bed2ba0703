package vm

import "math"

// Arithmetic applies a binary operator to two resolved operands.
// Division by exactly zero yields 0 instead of an infinity or NaN.
// Operators other than + - * / yield 0.
func Arithmetic(op byte, left, right float64) float64 {
	switch op {
	case '+':
		return left + right
	case '-':
		return left - right
	case '*':
		return left * right
	case '/':
		if right == 0 {
			return 0
		}
		return left / right
	default:
		return 0
	}
}

// Narrow picks the stored type of an arithmetic result: Int when the result
// has no fractional part, Float otherwise. Results that do not fit an int64
// (including infinities and NaN) stay Float.
func Narrow(result float64) Value {
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return Float(result)
	}
	if result != math.Trunc(result) {
		return Float(result)
	}
	if result >= math.MaxInt64 || result < math.MinInt64 {
		return Float(result)
	}
	return Int(int64(result))
}

// IsArithmeticOperator reports whether c is one of + - * /.
func IsArithmeticOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/':
		return true
	default:
		return false
	}
}
