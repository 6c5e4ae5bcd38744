package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

var _ remoteio.InputReader = LocalFileReader{}

// LocalFileReader はローカルファイルを読む remoteio.InputReader です。
// CLI で手元の画像を参照画像に使うときに ImageLoader に渡します。
type LocalFileReader struct{}

// Open は uri（パスまたは file:// URL）のファイルを開きます。
func (LocalFileReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	path, err := localPath(uri)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(path)
}

// List は uri のディレクトリ直下にあるファイルのパスを順に fn に渡します。
func (LocalFileReader) List(ctx context.Context, uri string, fn func(string) error) error {
	dir, err := localPath(uri)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func localPath(uri string) (string, error) {
	path := strings.TrimPrefix(uri, "file://")
	if strings.Contains(path, "://") {
		return "", fmt.Errorf("ローカルファイルではありません: %s", uri)
	}
	return path, nil
}
