package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "US format with dollar sign",
			text: "$1,234.56",
			want: "1234.56",
			ok:   true,
		},
		{
			name: "European format with trailing code",
			text: "1.234,56 EUR",
			want: "1234.56",
			ok:   true,
		},
		{
			name: "Swiss apostrophe thousands",
			text: "1'234.56 CHF",
			want: "1234.56",
			ok:   true,
		},
		{
			name: "lone comma as decimal separator",
			text: "1234,56",
			want: "1234.56",
			ok:   true,
		},
		{
			name: "plain decimal",
			text: "45.00",
			want: "45.00",
			ok:   true,
		},
		{
			name: "lone comma as thousands separator",
			text: "1,234",
			want: "1234",
			ok:   true,
		},
		{
			name: "short comma decimal",
			text: "12,34",
			want: "12.34",
			ok:   true,
		},
		{
			name: "negative amount",
			text: "-1,234.56",
			want: "-1234.56",
			ok:   true,
		},
		{
			name: "leading currency code",
			text: "CHF 2'500",
			want: "2500",
			ok:   true,
		},
		{
			name: "millions with European grouping",
			text: "€ 1.234.567,89",
			want: "1234567.89",
			ok:   true,
		},
		{
			name: "amount embedded in label text",
			text: "Balance: $45.00",
			want: "45.00",
			ok:   true,
		},
		{
			name: "lowercase currency code",
			text: "1,234.00 usd",
			want: "1234.00",
			ok:   true,
		},
		{
			name: "non-numeric text",
			text: "abc",
			want: "",
			ok:   false,
		},
		{
			name: "empty string",
			text: "",
			want: "",
			ok:   false,
		},
		{
			name: "multiple dots without comma",
			text: "1.2.3.4",
			want: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				want := decimal.RequireFromString(tt.want)
				assert.True(t, want.Equal(got), "parsed %s, want %s", got, want)
			}
		})
	}
}

func TestParseAmount_RoundTrip(t *testing.T) {
	// A value that survives parsing must render back to the same decimal,
	// regardless of the locale formatting it arrived in.
	variants := []string{"$1,234.56", "1.234,56 EUR", "1'234.56 CHF", "1234,56"}

	for _, text := range variants {
		got, ok := ParseAmount(text)
		require.True(t, ok, "failed to parse %q", text)
		assert.Equal(t, "1234.56", got.StringFixed(2), "from %q", text)
	}
}

func TestContainsCurrencyMarker(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"$45.00", true},
		{"1'234.56 CHF", true},
		{"1,234.00 usd", true},
		{"€100", true},
		{"1234.56", false},
		{"USDX 45", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsCurrencyMarker(tt.text), "text %q", tt.text)
	}
}
