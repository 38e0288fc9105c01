package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference digests from the published FNV-1a 64-bit test vectors
// (basis 0xcbf29ce484222325, prime 0x100000001b3).
func TestPhraseIdMatchesFnv1a64(t *testing.T) {
	cases := []struct {
		name string
		want PhraseId
	}{
		{"", 0xcbf29ce484222325},
		{"a", 0xaf63dc4c8601ec8c},
		{"foobar", 0x85944171f73967e8},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PhraseIdFromName(tc.name), "name %q", tc.name)
	}
}

func TestPhraseIdStableAcrossCalls(t *testing.T) {
	first := PhraseIdFromName("draw_card")
	assert.Equal(t, first, PhraseIdFromName("draw_card"))
	assert.NotEqual(t, first, PhraseIdFromName("draw_cards"))
}
