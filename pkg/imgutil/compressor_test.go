package imgutil

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// テスト用のダミー画像（10x10の赤い正方形）を作成するヘルパー
func createDummyImageData(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}

	if err != nil {
		t.Fatalf("failed to encode dummy image: %v", err)
	}
	return buf.Bytes()
}

func TestPrepareReference(t *testing.T) {
	t.Run("quality 指定時は PNG を JPEG に変換する", func(t *testing.T) {
		got, mimeType, err := PrepareReference(createDummyImageData(t, "png"), 75)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mimeType != "image/jpeg" {
			t.Errorf("expected image/jpeg, got %s", mimeType)
		}

		// 出力がJPEGとしてデコード可能か確認
		_, format, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Errorf("failed to decode output image: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
	})

	t.Run("quality 0 の場合は元のバイト列のまま", func(t *testing.T) {
		input := createDummyImageData(t, "png")
		got, mimeType, err := PrepareReference(input, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mimeType != "image/png" || !bytes.Equal(got, input) {
			t.Errorf("input should pass through untouched, got %s", mimeType)
		}
	})

	t.Run("画像以外は ErrNotImage", func(t *testing.T) {
		_, _, err := PrepareReference([]byte("this is not an image"), 75)
		if !errors.Is(err, ErrNotImage) {
			t.Errorf("expected ErrNotImage, got %v", err)
		}
	})

	t.Run("Quality設定によってサイズが変化すること", func(t *testing.T) {
		input := createDummyImageData(t, "png")

		highQuality, _, _ := PrepareReference(input, 100)
		lowQuality, _, _ := PrepareReference(input, 10)

		if len(lowQuality) >= len(highQuality) {
			t.Errorf("low quality size (%d) should be smaller than high quality size (%d)", len(lowQuality), len(highQuality))
		}
	})
}
