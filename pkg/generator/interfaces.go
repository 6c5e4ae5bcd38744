package generator

import (
	"context"

	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/media"
	"google.golang.org/genai"
)

// Generator はビジネスロジック層が利用する統合窓口です。
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedMedia, error)
}

// VideoModel は Veo の非同期オペレーション API（投入とポーリング）を抽象化します。
type VideoModel interface {
	// GenerateVideos は生成ジョブを投入し、オペレーションハンドルを返します。
	GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	// GetVideosOperation はオペレーションの最新状態を取得します。
	GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

// HTTPClient は、URLからデータを取得するためのインターフェースです。
// 2xx 以外の応答はエラーとして返す必要があります。httpkit.Client がこれを満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// MediaStore は取得した動画をローカルハンドルとして保持します。
type MediaStore interface {
	Create(data []byte, mimeType string) (media.Handle, error)
}
