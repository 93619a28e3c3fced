package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDataURL(t *testing.T) {
	tests := []struct {
		in       string
		wantMime string
		wantData string
	}{
		{"data:image/png;base64,AAAA", "image/png", "AAAA"},
		{"data:image/jpeg;base64,/9j/", "image/jpeg", "/9j/"},
		{"AAAA", "", "AAAA"},
		{"  data:image/jpg;base64,QQ==  ", "image/jpg", "QQ=="},
	}

	for _, tt := range tests {
		mime, data := SplitDataURL(tt.in)
		assert.Equal(t, tt.wantMime, mime, tt.in)
		assert.Equal(t, tt.wantData, data, tt.in)
	}
}

func TestDecodeImage(t *testing.T) {
	mime, data, err := DecodeImage("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, "hello", string(data))

	mime, data, err = DecodeImage("aGVsbG8")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "hello", string(data))

	_, _, err = DecodeImage("not base64!")
	assert.Error(t, err)
}
