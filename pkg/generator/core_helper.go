package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/imgutil"
	"google.golang.org/genai"
)

// videoPayload はプロバイダーに送る内容です。
type videoPayload struct {
	prompt string
	image  *genai.Image
	config *genai.GenerateVideosConfig
}

// ValidateRequest は送信前にリクエストを検証します。ネットワークには触れません。
func ValidateRequest(req domain.GenerationRequest) error {
	_, err := buildRequest(req)
	return err
}

// buildRequest は入力を検証し、プロバイダー向けのペイロードを組み立てます。ネットワークには触れません。
func buildRequest(req domain.GenerationRequest) (*videoPayload, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, domain.NewError(domain.KindValidation, msgEmptyPrompt, nil)
	}
	if !req.AspectRatio.Valid() {
		return nil, domain.NewError(domain.KindValidation, fmt.Sprintf(msgBadAspectRatio, req.AspectRatio), domain.ErrInvalidAspectRatio)
	}

	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    string(req.AspectRatio),
	}
	if req.DurationSeconds != nil {
		if *req.DurationSeconds <= 0 {
			return nil, domain.NewError(domain.KindValidation, fmt.Sprintf("動画の長さが不正です: %d", *req.DurationSeconds), nil)
		}
		d := *req.DurationSeconds
		cfg.DurationSeconds = &d
	}

	p := &videoPayload{prompt: req.Prompt, config: cfg}
	if req.ReferenceImage != nil {
		img, err := toImage(req.ReferenceImage)
		if err != nil {
			return nil, err
		}
		p.image = img
	}
	return p, nil
}

// toImage は data URL の参照画像をデコードして genai.Image に変換します。
func toImage(ref *domain.ReferenceImage) (*genai.Image, error) {
	mimeType, data, err := imgutil.ParseDataURL(ref.DataURL)
	if err != nil {
		return nil, domain.NewError(domain.KindValidation, msgInvalidImage, err)
	}
	if ref.MIMEType != "" {
		mimeType = ref.MIMEType
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &genai.Image{ImageBytes: data, MIMEType: mimeType}, nil
}

// await は終端状態になるまで一定間隔でオペレーションを再取得します。
// 取得したスナップショットは常に丸ごと置き換え、マージはしません。
func (g *VideoGenerator) await(ctx context.Context, op *genai.GenerateVideosOperation, withImage bool) (outcome, error) {
	if g.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, g.policy.Timeout, errPollTimeout)
		defer cancel()
	}
	progress := progressFrom(ctx)

	attempt := 0
	for {
		out := toOutcome(op, withImage)
		if _, ok := out.(pending); !ok {
			return out, nil
		}

		if g.policy.MaxAttempts > 0 && attempt >= g.policy.MaxAttempts {
			return nil, domain.NewError(domain.KindTimeout, msgTimeout,
				fmt.Errorf("operation %s still running after %d polls", op.Name, attempt))
		}
		if err := g.sleep(ctx, g.policy.Interval); err != nil {
			return nil, classifyError(ctx, err, withImage)
		}

		attempt++
		next, err := g.model.GetVideosOperation(ctx, op)
		if err != nil {
			return nil, classifyError(ctx, err, withImage)
		}
		if next == nil {
			return nil, classify(providerFailure{message: "empty operation"}, withImage, nil)
		}
		op = next

		slog.DebugContext(ctx, "オペレーションの状態を取得しました", "operation", op.Name, "attempt", attempt, "done", op.Done)
		if !op.Done {
			progress(attempt, LoadingMessage(attempt))
		}
	}
}

// toOutcome はオペレーションのスナップショットをタグ付きの結果に変換します。
func toOutcome(op *genai.GenerateVideosOperation, withImage bool) outcome {
	if !op.Done {
		return pending{}
	}
	if len(op.Error) > 0 {
		f := failureFromOperation(op.Error)
		return failed{err: classify(f, withImage, fmt.Errorf("operation %s failed: code=%d status=%s message=%s", op.Name, f.code, f.status, f.message))}
	}

	resp := op.Response
	if resp != nil && len(resp.GeneratedVideos) > 0 {
		if v := resp.GeneratedVideos[0]; v != nil && v.Video != nil && v.Video.URI != "" {
			return succeeded{uri: v.Video.URI, mimeType: v.Video.MIMEType}
		}
	}
	return failed{err: resultMissing(op.Name, resp)}
}

func resultMissing(name string, resp *genai.GenerateVideosResponse) *domain.GenerationError {
	msg := msgResultMissing
	cause := fmt.Errorf("operation %s: no video uri in response", name)
	if resp != nil && len(resp.RAIMediaFilteredReasons) > 0 {
		msg += " (" + strings.Join(resp.RAIMediaFilteredReasons, " / ") + ")"
		cause = fmt.Errorf("operation %s: no video uri, %d filtered: %v", name, resp.RAIMediaFilteredCount, resp.RAIMediaFilteredReasons)
	}
	return domain.NewError(domain.KindResultMissing, msg, cause)
}

// resolve は動画をダウンロードし、ローカルハンドルを作成します。
func (g *VideoGenerator) resolve(ctx context.Context, s succeeded) (*domain.GeneratedMedia, error) {
	fetchURL, err := withAPIKey(s.uri, g.apiKey)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, fmt.Sprintf(msgFetch, err), err)
	}

	slog.InfoContext(ctx, "生成された動画をダウンロードします", "uri", s.uri)
	data, err := g.httpClient.FetchBytes(ctx, fetchURL)
	if err != nil {
		if e := contextError(ctx, err); e != nil {
			return nil, e
		}
		cause := &redactedError{err: err, secret: g.apiKey}
		slog.WarnContext(ctx, "動画のダウンロードに失敗しました", "uri", s.uri, "error", cause)
		return nil, domain.NewError(domain.KindFetch, fmt.Sprintf(msgFetch, fetchDetail(cause, g.apiKey)), cause)
	}
	if len(data) == 0 {
		return nil, domain.NewError(domain.KindFetch, fmt.Sprintf(msgFetch, "empty body"), nil)
	}

	mimeType := s.mimeType
	if mimeType == "" {
		mimeType = defaultVideoMIME
	}
	h, err := g.store.Create(data, mimeType)
	if err != nil {
		return nil, domain.NewError(domain.KindFetch, fmt.Sprintf(msgFetch, err), err)
	}

	slog.InfoContext(ctx, "動画の準備ができました", "handle", h.URL, "bytes", h.Size)
	return &domain.GeneratedMedia{
		SourceURI:   s.uri,
		LocalHandle: h.URL,
		MIMEType:    h.MIMEType,
		Size:        h.Size,
		CreatedAt:   h.CreatedAt,
	}, nil
}
