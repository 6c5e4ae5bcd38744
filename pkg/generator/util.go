package generator

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/tidwall/gjson"
)

// withAPIKey はダウンロード URL に認証用のクエリパラメータを付与します。
func withAPIKey(rawURL, apiKey string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("ダウンロードURLの解析に失敗しました: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("不許可スキーム: %q", u.Scheme)
	}
	q := u.Query()
	q.Set(apiKeyQueryParam, apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redactedError はエラー文字列から API キーを伏せます（url.Error は URL をそのまま含むため）。
type redactedError struct {
	err    error
	secret string
}

func (e *redactedError) Error() string {
	if e.secret == "" {
		return e.err.Error()
	}
	return strings.ReplaceAll(e.err.Error(), e.secret, "REDACTED")
}

func (e *redactedError) Unwrap() error {
	return e.err
}

// fetchDetail はダウンロード失敗の要約を返します。
// 4xx 応答の場合は JSON ボディの error.message を優先します。
func fetchDetail(err error, secret string) string {
	detail := err.Error()
	var httpErr *httpkit.NonRetryableHTTPError
	if errors.As(err, &httpErr) {
		detail = fmt.Sprintf("ステータスコード %d", httpErr.StatusCode)
		if m := gjson.GetBytes(httpErr.Body, "error.message").String(); m != "" {
			detail += ": " + m
		}
	}
	if secret != "" {
		detail = strings.ReplaceAll(detail, secret, "REDACTED")
	}
	return detail
}
