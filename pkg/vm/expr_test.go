package vm

import (
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       byte
		left     float64
		right    float64
		expected float64
	}{
		{"addition", '+', 2, 3, 5},
		{"subtraction", '-', 2, 3, -1},
		{"multiplication", '*', 4, 2.5, 10},
		{"division", '/', 8, 2, 4},
		{"fractional division", '/', 1, 4, 0.25},
		{"division by zero", '/', 10, 0, 0},
		{"zero divided by zero", '/', 0, 0, 0},
		{"unknown operator", '%', 7, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Arithmetic(tt.op, tt.left, tt.right); got != tt.expected {
				t.Errorf("Arithmetic(%c, %v, %v) = %v, expected %v", tt.op, tt.left, tt.right, got, tt.expected)
			}
		})
	}
}

func TestNarrow(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected Value
	}{
		{"integral", 4, Int(4)},
		{"negative integral", -12, Int(-12)},
		{"zero", 0, Int(0)},
		{"fraction", 2.5, Float(2.5)},
		{"too large", 1e20, Float(1e20)},
		{"inf", math.Inf(1), Float(math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Narrow(tt.input); got != tt.expected {
				t.Errorf("Narrow(%v) = %#v, expected %#v", tt.input, got, tt.expected)
			}
		})
	}

	if got := Narrow(math.NaN()); got.Kind() != KindFloat {
		t.Errorf("Narrow(NaN) should stay float, got %s", got.Kind())
	}
}

func TestIsArithmeticOperator(t *testing.T) {
	for _, c := range []byte("+-*/") {
		if !IsArithmeticOperator(c) {
			t.Errorf("%c should be an arithmetic operator", c)
		}
	}
	for _, c := range []byte("%^=<") {
		if IsArithmeticOperator(c) {
			t.Errorf("%c should not be an arithmetic operator", c)
		}
	}
}
