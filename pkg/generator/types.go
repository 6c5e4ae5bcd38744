package generator

import (
	"context"
	"time"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

const (
	DefaultModel        = "veo-2.0-generate-001"
	DefaultPollInterval = 10 * time.Second
	defaultVideoMIME    = "video/mp4"
	apiKeyQueryParam    = "key"
)

// PollPolicy はオペレーションのポーリング間隔と打ち切り条件です。
// MaxAttempts と Timeout が 0 の場合は終端状態になるまで待ち続けます。
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

// DefaultPollPolicy は 10 秒間隔・無制限のポリシーを返します。
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{Interval: DefaultPollInterval}
}

// LoadingMessages は生成待ちの間に順番に表示するメッセージです。
var LoadingMessages = []string{
	"ピクセルを温めています...",
	"デジタル俳優の振り付け中...",
	"光子を同期しています...",
	"仮想カメラの軌道を計算中...",
	"創造性をコンパイルしています...",
	"傑作をレンダリング中です...",
	"最終フレームを磨いています...",
	"もうすぐ完成です。しばらくお待ちください。",
}

// LoadingMessage は attempt 回目のポーリングに対応するメッセージを返します。
func LoadingMessage(attempt int) string {
	if attempt < 0 {
		attempt = 0
	}
	return LoadingMessages[attempt%len(LoadingMessages)]
}

// ProgressFunc は未完了のポーリングごとに呼ばれます。
type ProgressFunc func(attempt int, message string)

type progressKey struct{}

// ContextWithProgress は進捗通知先を ctx に設定します。
func ContextWithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

func progressFrom(ctx context.Context) ProgressFunc {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok && fn != nil {
		return fn
	}
	return func(int, string) {}
}

// outcome はオペレーションの状態を表すタグ付きの結果です。
// pending / succeeded / failed のいずれかです。
type outcome interface {
	isOutcome()
}

type pending struct{}

type succeeded struct {
	uri      string
	mimeType string
}

type failed struct {
	err *domain.GenerationError
}

func (pending) isOutcome()   {}
func (succeeded) isOutcome() {}
func (failed) isOutcome()    {}
