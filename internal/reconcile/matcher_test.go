package reconcile

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Lanka Petrol 92 Octane":   "lanka petrol 92 octane",
		"Lanka%20Auto%20Diesel":    "lanka auto diesel",
		"  SUPER--diesel!! ":       "super diesel",
		"petrol_95/octane":         "petrol 95 octane",
		"":                         "",
		"%20%20":                   "",
		"Lanka   Petrol\t92\nOct.": "lanka petrol 92 oct",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	idempotent := func(s string) bool {
		once := Normalize(s)
		return Normalize(once) == once
	}
	assert.NoError(t, quick.Check(idempotent, &quick.Config{MaxCount: 2000}))
	assert.Equal(t, Normalize("a%2520b"), Normalize(Normalize("a%2520b")))
}

func TestMatchesProduct(t *testing.T) {
	tests := []struct {
		label     string
		canonical string
		want      bool
	}{
		{"92 Petrol", "Lanka Petrol 92 Octane", true},
		{"Lanka Auto Diesel", "Lanka Super Diesel", false},
		{"Lanka Petrol 92 Octane", "Lanka Petrol 92 Octane", true},
		{"lanka%20petrol%2092%20octane", "Lanka Petrol 92 Octane", true},
		{"Octane 95 petrol", "Lanka Petrol 95 Octane", true},
		{"Petrol 92", "Lanka Petrol 95 Octane", false},
		{"95", "Lanka Petrol 95 Octane", false},
		{"auto-diesel", "Lanka Auto Diesel", true},
		{"Diesel", "Lanka Auto Diesel", false},
		{"SUPER DIESEL", "Lanka Super Diesel", true},
		{"super-diesel (LSD)", "Lanka Super Diesel", true},
		{"Diesel Super", "Lanka Super Diesel", false},
		{"Lanka Super Diesel", "Lanka Auto Diesel", false},
		{"", "Lanka Auto Diesel", false},
		{"kerosene", "Lanka Kerosene", false},
		{"Lanka Kerosene", "Lanka Kerosene", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesProduct(tt.label, tt.canonical), "%q vs %q", tt.label, tt.canonical)
	}
}

func TestMatchesProduct_AmbiguousLabelMatchesBoth(t *testing.T) {
	label := "petrol 92/95 mix"

	assert.True(t, MatchesProduct(label, "Lanka Petrol 92 Octane"))
	assert.True(t, MatchesProduct(label, "Lanka Petrol 95 Octane"))
}
