package generator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		failure   providerFailure
		withImage bool
		want      domain.ErrorKind
	}{
		{"401", providerFailure{code: 401}, false, domain.KindAuth},
		{"API key not valid", providerFailure{code: 400, message: "API key not valid. Please pass a valid API key."}, false, domain.KindAuth},
		{"API_KEY_INVALID", providerFailure{message: "reason: API_KEY_INVALID"}, false, domain.KindAuth},
		{"429", providerFailure{code: 429}, false, domain.KindQuota},
		{"RESOURCE_EXHAUSTED ステータス", providerFailure{status: "resource_exhausted"}, false, domain.KindQuota},
		{"quota を含む", providerFailure{message: "You exceeded your current quota"}, false, domain.KindQuota},
		{"人物の画像", providerFailure{code: 400, message: "Image contains a prominent person"}, true, domain.KindContentPolicy},
		{"画像なしなら provider", providerFailure{code: 400, message: "Image contains a prominent person"}, false, domain.KindProvider},
		{"その他", providerFailure{code: 500, message: "backend error"}, true, domain.KindProvider},
		{"空メッセージ", providerFailure{}, false, domain.KindProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.failure, tt.withImage, nil)
			assert.Equal(t, tt.want, got.Kind)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestFailureFromOperation(t *testing.T) {
	t.Run("JSON 由来の float64", func(t *testing.T) {
		f := failureFromOperation(map[string]any{"code": float64(429), "message": "quota", "status": "RESOURCE_EXHAUSTED"})
		assert.Equal(t, providerFailure{code: 429, status: "RESOURCE_EXHAUSTED", message: "quota"}, f)
	})

	t.Run("int と json.Number", func(t *testing.T) {
		assert.Equal(t, 3, failureFromOperation(map[string]any{"code": 3}).code)
		assert.Equal(t, 8, failureFromOperation(map[string]any{"code": json.Number("8")}).code)
	})

	t.Run("型が違う値は無視する", func(t *testing.T) {
		f := failureFromOperation(map[string]any{"code": "oops", "message": 12})
		assert.Equal(t, providerFailure{}, f)
	})
}

func TestClassifyError_Context(t *testing.T) {
	t.Run("タイムアウト原因付きの ctx は timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeoutCause(context.Background(), 0, errPollTimeout)
		defer cancel()
		<-ctx.Done()
		got := classifyError(ctx, ctx.Err(), false)
		assert.Equal(t, domain.KindTimeout, got.Kind)
	})

	t.Run("キャンセルは canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		got := classifyError(ctx, ctx.Err(), false)
		assert.Equal(t, domain.KindCanceled, got.Kind)
	})

	t.Run("分類済みのエラーはそのまま", func(t *testing.T) {
		orig := domain.NewError(domain.KindFetch, "x", nil)
		got := classifyError(context.Background(), errors.Join(errors.New("outer"), orig), false)
		assert.Same(t, orig, got)
	})
}
