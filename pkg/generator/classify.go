package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/shouni/gemini-video-kit/pkg/domain"
	"google.golang.org/genai"
)

// 利用者向けメッセージ
const (
	msgEmptyPrompt    = "動画を生成するにはプロンプトを入力してください。"
	msgInvalidImage   = "キャラクター画像のデータ形式が不正です (invalid character image data format)。"
	msgAuth           = "APIキーが無効です。APIキーを確認してください。"
	msgQuota          = "APIの利用上限に達しました。プランと使用量の上限を確認してください。"
	msgContentPolicy  = "参照画像に実在の人物など生成が許可されていない被写体が含まれているため、リクエストが拒否されました。別の画像で再度お試しください。"
	msgProvider       = "エラーが発生しました: %s"
	msgResultMissing  = "動画のダウンロードリンクを取得できませんでした。安全フィルターによってブロックされた可能性があります。プロンプトや画像を変更して再度お試しください。"
	msgFetch          = "動画のダウンロード中にエラーが発生しました: %v"
	msgTimeout        = "動画生成が制限時間内に完了しませんでした。"
	msgCanceled       = "動画生成が中断されました。"
	msgMissingAPIKey  = "APIキーが設定されていません。"
	msgBadAspectRatio = "サポートされていないアスペクト比です: %s"
)

var (
	authPatterns          = []string{"api key not valid", "api_key_invalid", "invalid api key"}
	quotaPatterns         = []string{"quota", "resource_exhausted", "resource exhausted"}
	contentPolicyPatterns = []string{"person", "people", "face", "celebrit", "prominent"}
)

// providerFailure はプロバイダーから受け取ったエラーの要素です。
type providerFailure struct {
	code    int
	status  string
	message string
}

// classify はプロバイダーのエラーを利用者向けの種別に振り分けます。
// 文言に依存した判定はここに閉じ込め、構造化されたコードが使える場合はそちらを優先します。
func classify(f providerFailure, withImage bool, cause error) *domain.GenerationError {
	msg := strings.ToLower(f.message)
	status := strings.ToUpper(f.status)

	switch {
	case f.code == http.StatusUnauthorized || status == "UNAUTHENTICATED" || containsAny(msg, authPatterns):
		return domain.NewError(domain.KindAuth, msgAuth, cause)
	case f.code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED" || containsAny(msg, quotaPatterns):
		return domain.NewError(domain.KindQuota, msgQuota, cause)
	case withImage && containsAny(msg, contentPolicyPatterns):
		return domain.NewError(domain.KindContentPolicy, msgContentPolicy, cause)
	}

	detail := f.message
	if detail == "" {
		detail = "不明なエラー"
	}
	return domain.NewError(domain.KindProvider, fmt.Sprintf(msgProvider, detail), cause)
}

// classifyError は SDK から返った error を分類します。
func classifyError(ctx context.Context, err error, withImage bool) *domain.GenerationError {
	if e, ok := domain.AsGenerationError(err); ok {
		return e
	}
	if e := contextError(ctx, err); e != nil {
		return e
	}
	return classify(failureFromError(err), withImage, err)
}

func failureFromError(err error) providerFailure {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return providerFailure{code: apiErr.Code, status: apiErr.Status, message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return providerFailure{code: apiErrPtr.Code, status: apiErrPtr.Status, message: apiErrPtr.Message}
	}
	var gaxErr *apierror.APIError
	if errors.As(err, &gaxErr) {
		return providerFailure{code: gaxErr.HTTPCode(), status: gaxErr.Reason(), message: gaxErr.Error()}
	}
	return providerFailure{message: err.Error()}
}

// failureFromOperation はオペレーションの error ペイロード（{code, message, status}）を取り出します。
func failureFromOperation(payload map[string]any) providerFailure {
	f := providerFailure{}
	if m, ok := payload["message"].(string); ok {
		f.message = m
	}
	if s, ok := payload["status"].(string); ok {
		f.status = s
	}
	switch c := payload["code"].(type) {
	case float64:
		f.code = int(c)
	case int:
		f.code = c
	case int32:
		f.code = int(c)
	case int64:
		f.code = int(c)
	case json.Number:
		if n, err := c.Int64(); err == nil {
			f.code = int(n)
		}
	}
	return f
}

// contextError は ctx の終了による失敗を timeout / canceled に変換します。
func contextError(ctx context.Context, err error) *domain.GenerationError {
	if ctx.Err() == nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if errors.Is(context.Cause(ctx), errPollTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewError(domain.KindTimeout, msgTimeout, err)
	}
	return domain.NewError(domain.KindCanceled, msgCanceled, err)
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
