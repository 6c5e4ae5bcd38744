package adapters

import (
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

const (
	// DefaultFetchTimeout は動画ダウンロードの既定タイムアウトです。
	DefaultFetchTimeout = 5 * time.Minute
	// DefaultImageTimeout は参照画像ダウンロードの既定タイムアウトです。
	DefaultImageTimeout = 30 * time.Second
)

// NewVideoFetcher は生成動画のダウンロード用クライアントを返します。
// 取得は 1 回きりで、失敗してもリトライしません。
func NewVideoFetcher(opts ...httpkit.ClientOption) *httpkit.Client {
	return httpkit.New(DefaultFetchTimeout, append([]httpkit.ClientOption{httpkit.WithMaxRetries(0)}, opts...)...)
}

// NewImageClient は参照画像のダウンロード用クライアントを返します。
// 接続時にも宛先 IP を検証するため、リダイレクトや DNS Rebinding で内部ネットワークには到達できません。
func NewImageClient(opts ...httpkit.ClientOption) *httpkit.Client {
	return httpkit.New(DefaultImageTimeout, opts...)
}
