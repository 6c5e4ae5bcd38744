package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrap: %w", NewError(KindQuota, "上限に達しました", cause))

	t.Run("種別で判定できる", func(t *testing.T) {
		assert.True(t, errors.Is(err, KindQuota))
		assert.False(t, errors.Is(err, KindProvider))
	})

	t.Run("原因のエラーも辿れる", func(t *testing.T) {
		assert.ErrorIs(t, err, cause)
	})

	t.Run("KindOf と UserMessage", func(t *testing.T) {
		assert.Equal(t, KindQuota, KindOf(err))
		assert.Equal(t, "上限に達しました", UserMessage(err))
		assert.Equal(t, ErrorKind(""), KindOf(cause))
		assert.NotEmpty(t, UserMessage(cause))
		assert.Empty(t, UserMessage(nil))
	})
}

func TestAspectRatio_Valid(t *testing.T) {
	for _, opt := range AspectRatioOptions {
		assert.True(t, opt.Value.Valid(), opt.Value)
	}
	assert.Len(t, AspectRatioOptions, 5)
	assert.False(t, AspectRatio("21:9").Valid())
	assert.False(t, AspectRatio("").Valid())
}
