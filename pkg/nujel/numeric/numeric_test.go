package numeric

import "testing"

func TestMatchDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"5", 1, true},
		{"-5", 2, true},
		{"+42 rest", 3, true},
		{"1.5", 3, true},
		{"1.", 2, true},
		{".5", 2, true},
		{"+.5)", 3, true},
		{"1e10", 4, true},
		{"1E-3", 4, true},
		{"2.5s+7", 6, true},
		{"12#.#", 5, true},
		{"1/2", 3, true},
		{"-3/4]", 4, true},
		{"+i", 2, true},
		{"-I", 2, true},
		{"+2i", 3, true},
		{"1+2i", 4, true},
		{"1.5-i", 5, true},
		{"1@2", 3, true},
		{"-1.5@+0.5 ", 9, true},
		{"7;comment", 1, true},
		{`7"str"`, 1, true},
		{"7(", 1, true},

		{"1+", 0, false},
		{"1a", 0, false},
		{"abc", 0, false},
		{"+", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"..", 0, false},
		{"1/", 0, false},
		{"1..2", 0, false},
		{"-foo", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, ok := Match(Decimal, tt.input)
			if ok != tt.ok || n != tt.want {
				t.Errorf("Match(Decimal, %q) = (%d, %v), want (%d, %v)", tt.input, n, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMatchOtherRadices(t *testing.T) {
	tests := []struct {
		radix Radix
		input string
		want  int
		ok    bool
	}{
		{Binary, "1010", 4, true},
		{Binary, "-101/11", 7, true},
		{Binary, "1+1i", 4, true},
		{Binary, "102", 0, false},
		{Octal, "777", 3, true},
		{Octal, "17@3 ", 4, true},
		{Octal, "8", 0, false},
		{Hex, "ff", 2, true},
		{Hex, "DEADbeef)", 8, true},
		{Hex, "-a/b", 4, true},
		{Hex, "fg", 0, false},
		{Hex, "1.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.radix.String()+"/"+tt.input, func(t *testing.T) {
			n, ok := Match(tt.radix, tt.input)
			if ok != tt.ok || n != tt.want {
				t.Errorf("Match(%s, %q) = (%d, %v), want (%d, %v)", tt.radix, tt.input, n, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecimalLiteralsConsumeWholeRun(t *testing.T) {
	signs := []string{"", "-", "+"}
	ints := []string{"0", "7", "123"}
	fracs := []string{"", ".5", ".25"}
	exps := []string{"", "e3", "e-12", "e+1"}

	for _, s := range signs {
		for _, i := range ints {
			for _, f := range fracs {
				for _, e := range exps {
					lit := s + i + f + e
					if !IsNumber(Decimal, lit) {
						t.Errorf("%q should be a complete decimal literal", lit)
					}
					if n, ok := Match(Decimal, lit+" x"); !ok || n != len(lit) {
						t.Errorf("Match(%q) = (%d, %v), want (%d, true)", lit+" x", n, ok, len(lit))
					}
				}
			}
		}
	}
}

func TestRadixFor(t *testing.T) {
	tests := []struct {
		marker byte
		want   Radix
		ok     bool
	}{
		{'b', Binary, true},
		{'O', Octal, true},
		{'d', Decimal, true},
		{'X', Hex, true},
		{'z', 0, false},
	}
	for _, tt := range tests {
		got, ok := RadixFor(tt.marker)
		if got != tt.want || ok != tt.ok {
			t.Errorf("RadixFor(%q) = (%v, %v), want (%v, %v)", tt.marker, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUnknownRadix(t *testing.T) {
	if _, ok := Match(Radix(3), "1"); ok {
		t.Error("unknown radix should never match")
	}
}
