package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"128-bit", TokenSize128, 22},
		{"256-bit", TokenSize256, 43},
		{"512-bit", TokenSize512, 86},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.wantLen)

			raw, err := base64.RawURLEncoding.DecodeString(token)
			require.NoError(t, err)
			require.Len(t, raw, tt.size)
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	_, err := GenerateToken(0)
	require.Error(t, err)

	_, err = GenerateToken(-1)
	require.Error(t, err)
}

func TestGenerateToken_Unique(t *testing.T) {
	a, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	b, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestFingerprintToken_Deterministic(t *testing.T) {
	fp1 := FingerprintToken("some-token")
	fp2 := FingerprintToken("some-token")
	require.Equal(t, fp1, fp2)
	require.Len(t, fp1, 43)

	require.NotEqual(t, fp1, FingerprintToken("some-other-token"))
}
