package eval

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"", "0", true},
		{"   ", "0", true},
		{"42", "42", true},
		{"1.25", "1.25", true},
		{"15/2", "7.5", true},
		{"2+2*2", "6", true},
		{"(2+2)*2", "8", true},
		{"-5", "-5", true},
		{"--5", "5", true},
		{"-(3+4)", "-7", true},
		{"10 - 2 - 3", "5", true},
		{"1/3*3", "0.9999999999999999", true}, // division precision, not rounded
		{"0.1+0.2", "0.3", true},              // exact decimals, no float drift
		{" 15 / 2 ", "7.5", true},
		{"(1+2)*(3+4)", "21", true},
		{"1/0", "", false},
		{"1/(2-2)", "", false},
		{"import os", "", false},
		{"__import__('os')", "", false},
		{"1+", "", false},
		{"(1+2", "", false},
		{"1..2", "", false},
		{"2**3", "", false},
		{"abc", "", false},
		{"1,5", "", false},
		{"1 2", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Evaluate(tc.in)
			if tc.ok {
				if err != nil {
					t.Fatalf("Evaluate(%q) failed: %v", tc.in, err)
				}
				want, _ := decimal.NewFromString(tc.out)
				if !got.Equal(want) {
					t.Fatalf("Evaluate(%q) = %s, want %s", tc.in, got, tc.out)
				}
				return
			}
			if err == nil {
				t.Fatalf("Evaluate(%q) = %s, expected error", tc.in, got)
			}
			if !errors.Is(err, ErrInvalidExpression) {
				t.Fatalf("Evaluate(%q) error %v does not match ErrInvalidExpression", tc.in, err)
			}
		})
	}
}

func TestInvalidExpressionCarriesInput(t *testing.T) {
	_, err := Evaluate("import os")
	var invalid *InvalidExpressionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidExpressionError, got %T", err)
	}
	if invalid.Input != "import os" {
		t.Fatalf("Input = %q, want the offending string", invalid.Input)
	}
}

func TestDivisionPrecision(t *testing.T) {
	// At least 10 fractional digits must survive before display rounding.
	got, err := Evaluate("1/3")
	if err != nil {
		t.Fatalf("Evaluate(1/3) failed: %v", err)
	}
	want, _ := decimal.NewFromString("0.3333333333")
	if got.Sub(want).Abs().GreaterThan(decimal.New(1, -10)) {
		t.Fatalf("1/3 = %s, expected at least 10 fractional digits of precision", got)
	}
}
