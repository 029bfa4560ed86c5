package currency

import "testing"

func TestConvert(t *testing.T) {
	t.Parallel()

	amount := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		amount *float64
		code   string
		expect *float64
	}{
		{
			name:   "usd",
			amount: amount(100),
			code:   "USD",
			expect: amount(8845),
		},
		{
			name:   "eur",
			amount: amount(10),
			code:   "EUR",
			expect: amount(951.7),
		},
		{
			name:   "kzt",
			amount: amount(1000),
			code:   "KZT",
			expect: amount(190),
		},
		{
			name:   "lowercase code behaves as uppercase",
			amount: amount(100),
			code:   "usd",
			expect: amount(8845),
		},
		{
			name:   "unknown code passes through",
			amount: amount(50000),
			code:   "XYZ",
			expect: amount(50000),
		},
		{
			name:   "empty code passes through",
			amount: amount(50000),
			code:   "",
			expect: amount(50000),
		},
		{
			name:   "nil amount stays nil",
			amount: nil,
			code:   "USD",
			expect: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Convert(tt.amount, tt.code)

			if tt.expect == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
				return
			}

			if got == nil {
				t.Fatalf("expected %v, got nil", *tt.expect)
			}
			if *got != *tt.expect {
				t.Fatalf("expected %v, got %v", *tt.expect, *got)
			}
		})
	}
}

func TestConvertDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := 100.0
	Convert(&in, "USD")

	if in != 100.0 {
		t.Fatalf("input amount mutated: %v", in)
	}
}
