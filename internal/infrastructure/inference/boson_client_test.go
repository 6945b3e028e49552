package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripReasoning(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain answer", "A short settlement summary.", "A short settlement summary."},
		{"thinking block", "<think>\nlet me consider\n</think>\n\nThe parties should settle.", "The parties should settle."},
		{"empty thinking block", "<think>\n\n</think>\n\nOffer accepted.", "Offer accepted."},
		{"whitespace only", "  \n ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripReasoning(tc.in))
		})
	}
}
