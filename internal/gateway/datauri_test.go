package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AQID", DataURI([]byte{1, 2, 3}, "image/png"))
	assert.Equal(t, "data:image/jpeg;base64,AQID", DataURI([]byte{1, 2, 3}, ""))
}

func TestNormalizeDataURI(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"AAAA", "data:image/jpeg;base64,AAAA"},
		{"  AAAA\n", "data:image/jpeg;base64,AAAA"},
		{"data:;base64,AAAA", "data:image/jpeg;base64,AAAA"},
	}
	for _, tt := range tests {
		got, err := NormalizeDataURI(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.out, got)
	}
}

func TestNormalizeDataURI_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "data:image/png;base64,"} {
		_, err := NormalizeDataURI(in)
		assert.ErrorIs(t, err, ErrEmptyInput, in)
	}
}
