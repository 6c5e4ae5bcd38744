package imgutil

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURL は data URL にデコード可能なペイロードが含まれていないことを示します。
var ErrInvalidDataURL = errors.New("invalid data url")

// ParseDataURL は "data:<mime>;base64,<payload>" 形式の文字列を分解します。
// ヘッダーに MIME タイプがない場合は空文字を返します。
func ParseDataURL(s string) (mimeType string, data []byte, err error) {
	header, payload, found := strings.Cut(s, ",")
	if !found || strings.TrimSpace(payload) == "" {
		return "", nil, ErrInvalidDataURL
	}

	data, err = base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", nil, errors.Join(ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return "", nil, ErrInvalidDataURL
	}

	header = strings.TrimPrefix(header, "data:")
	mimeType, _, _ = strings.Cut(header, ";")
	return mimeType, data, nil
}

// EncodeDataURL はバイト列を base64 の data URL に変換します。
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
