package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueProducesSixDigits(t *testing.T) {
	var issuer Issuer
	for i := 0; i < 10; i++ {
		code, err := issuer.Issue()
		require.Nil(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
	}
}
