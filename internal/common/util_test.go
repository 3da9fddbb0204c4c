package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeByteArray(t *testing.T) {
	passwd := []byte("hunter2")
	alias := passwd[:3]

	WipeByteArray(passwd)

	assert.Equal(t, make([]byte, 7), passwd)
	assert.Equal(t, []byte{0, 0, 0}, alias, "shared backing array is wiped too")
	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestGenerateRandByteArray(t *testing.T) {
	nonce := GenerateRandByteArray(12)
	require.Len(t, nonce, 12)

	other := GenerateRandByteArray(12)
	assert.NotEqual(t, nonce, other)
	assert.Empty(t, GenerateRandByteArray(0))
}
