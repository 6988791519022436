package checkout_test

import (
	"testing"

	"github.com/cedarelevator/commerce/internal/checkout"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "Plot 14, Industrial Estate",
			want: "Plot 14, Industrial Estate",
		},
		{
			name: "script tag stripped",
			in:   `<script>alert("x")</script>Ravi`,
			want: "scriptalert(x)/scriptRavi",
		},
		{
			name: "quotes and ampersands stripped",
			in:   `R&D "Block" 'A'`,
			want: "RD Block A",
		},
		{
			name: "whitespace trimmed",
			in:   "  Cedar Towers  ",
			want: "Cedar Towers",
		},
		{
			name: "empty stays empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkout.SanitizeText(tt.in))
		})
	}
}
