package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// ImageLoader はキャラクター用の参照画像を読み込みます。
// http(s) は httpkit 経由で、それ以外（ローカルパスや gs:// など）は reader 経由で取得します。
type ImageLoader struct {
	client httpkit.ClientInterface
	reader remoteio.InputReader
}

// NewImageLoader は ImageLoader を初期化します。
// reader が nil の場合は http(s) の URL だけを受け付けます。
func NewImageLoader(client httpkit.ClientInterface, reader remoteio.InputReader) (*ImageLoader, error) {
	if client == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	return &ImageLoader{client: client, reader: reader}, nil
}

// Load は src から画像データを読み込みます。
func (l *ImageLoader) Load(ctx context.Context, src string) ([]byte, error) {
	if isHTTPURL(src) {
		return l.fetch(ctx, src)
	}
	if l.reader == nil {
		return nil, fmt.Errorf("サポートされていない画像の指定です: %s", src)
	}

	rc, err := l.reader.Open(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("参照画像の読み込みに失敗しました: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, httpkit.MaxResponseBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("参照画像の読み込みに失敗しました: %w", err)
	}
	if int64(len(data)) > httpkit.MaxResponseBodySize {
		return nil, fmt.Errorf("参照画像が大きすぎます (上限 %d バイト)", httpkit.MaxResponseBodySize)
	}
	return data, nil
}

func (l *ImageLoader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if safe, err := l.client.IsSafeURL(rawURL); !safe || err != nil {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", rawURL, "error", err)
		if err == nil {
			err = fmt.Errorf("blocked url: %s", rawURL)
		}
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}

	data, err := l.client.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("参照画像のダウンロードに失敗しました: %w", err)
	}
	return data, nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
