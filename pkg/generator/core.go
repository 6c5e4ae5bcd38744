package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/utils"
)

var errPollTimeout = errors.New("poll timeout exceeded")

// VideoGenerator は動画生成ジョブひとつ分のライフサイクル（構築・投入とポーリング・取得）を担当します。
// 生成中のジョブを 1 件に制限するのは呼び出し側の責務です。
type VideoGenerator struct {
	model      VideoModel
	httpClient HTTPClient
	store      MediaStore
	apiKey     string
	modelName  string
	policy     PollPolicy
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option は VideoGenerator の設定を変更します。
type Option func(*VideoGenerator)

// WithModelName は使用するモデル名を設定します。
func WithModelName(name string) Option {
	return func(g *VideoGenerator) {
		if name != "" {
			g.modelName = name
		}
	}
}

// WithPollPolicy はポーリングのポリシーを設定します。
func WithPollPolicy(p PollPolicy) Option {
	return func(g *VideoGenerator) {
		if p.Interval > 0 {
			g.policy.Interval = p.Interval
		}
		g.policy.MaxAttempts = p.MaxAttempts
		g.policy.Timeout = p.Timeout
	}
}

// NewVideoGenerator は依存関係を注入して VideoGenerator を初期化します。
// apiKey が空の場合は configuration エラーを返し、生成は一切行えません。
func NewVideoGenerator(model VideoModel, httpClient HTTPClient, store MediaStore, apiKey string, opts ...Option) (*VideoGenerator, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.NewError(domain.KindConfiguration, msgMissingAPIKey, nil)
	}

	g := &VideoGenerator{
		model:      model,
		httpClient: httpClient,
		store:      store,
		apiKey:     apiKey,
		modelName:  DefaultModel,
		policy:     DefaultPollPolicy(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate は動画生成ジョブを投入し、終端状態まで待ってから動画を取得します。
// 失敗はすべて *domain.GenerationError として返り、再試行は行いません。
func (g *VideoGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedMedia, error) {
	payload, err := buildRequest(req)
	if err != nil {
		return nil, err
	}
	withImage := payload.image != nil

	slog.InfoContext(ctx, "動画生成リクエストを送信します",
		"model", g.modelName,
		"aspect_ratio", req.AspectRatio,
		"with_image", withImage,
		"duration_seconds", utils.Deref(req.DurationSeconds))

	op, err := g.model.GenerateVideos(ctx, g.modelName, payload.prompt, payload.image, payload.config)
	if err != nil {
		return nil, classifyError(ctx, err, withImage)
	}
	if op == nil {
		return nil, classify(providerFailure{message: "empty operation"}, withImage, nil)
	}
	slog.InfoContext(ctx, "動画生成ジョブを開始しました", "operation", op.Name)

	out, err := g.await(ctx, op, withImage)
	if err != nil {
		return nil, err
	}

	switch o := out.(type) {
	case succeeded:
		return g.resolve(ctx, o)
	case failed:
		slog.WarnContext(ctx, "動画生成ジョブが失敗しました", "operation", op.Name, "kind", o.err.Kind, "error", o.err.Err)
		return nil, o.err
	default:
		return nil, fmt.Errorf("unexpected outcome %T", out)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
