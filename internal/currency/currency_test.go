package currency

import "testing"

func TestGuess(t *testing.T) {
	cases := []struct {
		text string
		code string
		ok   bool
	}{
		{"Total: INR 1200", "INR", true},
		{"total: inr 1200", "INR", true},
		{"Amount ₹450.00", "INR", true},
		{"Rs. 300 paid in cash", "INR", true},
		{"Rs: 300", "INR", true},
		{"Grand total 99.50", "", false},
		{"", "", false},
		{"FIRST AID KIT", "", false}, // "rs" inside a word must not match
	}
	for _, tc := range cases {
		code, ok := Guess(tc.text)
		if code != tc.code || ok != tc.ok {
			t.Errorf("Guess(%q) = (%q, %t), want (%q, %t)", tc.text, code, ok, tc.code, tc.ok)
		}
	}
}

func TestCleanToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"l200", "1200"},
		{"IOO", "100"},
		{"S0.5O", "50.50"},
		{"|0%", "10%"},
		{"Rp 4.000", "4.000"},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := CleanToken(tc.in); got != tc.want {
			t.Errorf("CleanToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNumericValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1200", 1200, true},
		{"1,200.50", 1200.50, true},
		{"10%", 10, true},
		{"  42 ", 42, true},
		{"", 0, false},
		{"total", 0, false},
	}
	for _, tc := range cases {
		got, ok := NumericValue(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NumericValue(%q) = (%v, %t), want (%v, %t)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsPercent(t *testing.T) {
	if !IsPercent("10%") {
		t.Error("expected a trailing percent sign to be recognized")
	}
	if IsPercent("10") {
		t.Error("did not expect 10 to be a percent token")
	}
}
