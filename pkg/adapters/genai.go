package adapters

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIVideoModel は genai.Client を使って Veo の非同期オペレーションを呼び出すアダプターです。
type GenAIVideoModel struct {
	client *genai.Client
}

// NewGenAIClient は Gemini API 向けの genai.Client を生成します。
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// NewGenAIVideoModel は GenAIVideoModel を初期化します。
func NewGenAIVideoModel(client *genai.Client) (*GenAIVideoModel, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	return &GenAIVideoModel{client: client}, nil
}

// GenerateVideos は生成ジョブを投入します。
func (m *GenAIVideoModel) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return m.client.Models.GenerateVideos(ctx, model, prompt, image, config)
}

// GetVideosOperation はオペレーションの最新状態を取得します。
func (m *GenAIVideoModel) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return m.client.Operations.GetVideosOperation(ctx, op, nil)
}
