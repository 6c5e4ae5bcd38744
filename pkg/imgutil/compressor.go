package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
)

// ErrNotImage は入力が画像として認識できないことを示します。
var ErrNotImage = errors.New("input is not an image")

// PrepareReference は参照画像として送信するバイト列と MIME タイプを返します。
// quality が 0 より大きい場合は JPEG に再エンコードしてサイズを抑えます。
func PrepareReference(data []byte, quality int) ([]byte, string, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("%w: detected %s", ErrNotImage, mimeType)
	}
	if quality <= 0 {
		return data, mimeType, nil
	}
	compressed, err := compressToJPEG(data, quality)
	if err != nil {
		return nil, "", err
	}
	return compressed, "image/jpeg", nil
}

// compressToJPEG は image.Decode が扱える画像（PNG, GIF, JPEG）を JPEG に圧縮します。
func compressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
