package imgutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURL(t *testing.T) {
	t.Run("正常系", func(t *testing.T) {
		mimeType, data, err := ParseDataURL("data:image/png;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("EncodeDataURL と往復できる", func(t *testing.T) {
		s := EncodeDataURL("image/jpeg", []byte{0xFF, 0xD8, 0xFF})
		mimeType, data, err := ParseDataURL(s)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", mimeType)
		assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)
	})

	invalid := map[string]string{
		"カンマなし":      "data:image/png;base64",
		"ペイロードが空":    "data:image/png;base64,",
		"base64 として不正": "data:image/png;base64,***",
		"空文字":        "",
	}
	for name, in := range invalid {
		t.Run("異常系: "+name, func(t *testing.T) {
			_, _, err := ParseDataURL(in)
			assert.True(t, errors.Is(err, ErrInvalidDataURL), "got %v", err)
		})
	}
}
