package character

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/imgutil"
)

var (
	ErrNotFound    = errors.New("character not found")
	ErrEmptyName   = errors.New("character name is required")
	ErrInvalidData = errors.New("invalid character image data format")
)

// Gallery はプロセス内のキャラクター一覧と選択状態を保持します。
type Gallery struct {
	mu       sync.RWMutex
	items    []domain.Character
	selected string
	quality  int
	now      func() time.Time
}

// Option は Gallery の設定を変更します。
type Option func(*Gallery)

// WithJPEGQuality は AddImage で参照画像を JPEG に圧縮する品質を指定します。0 の場合は圧縮しません。
func WithJPEGQuality(q int) Option {
	return func(g *Gallery) {
		g.quality = q
	}
}

// NewGallery は空の Gallery を返します。
func NewGallery(opts ...Option) *Gallery {
	g := &Gallery{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add は data URL 形式の画像からキャラクターを登録します。
func (g *Gallery) Add(name, dataURL, mimeType string) (domain.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Character{}, ErrEmptyName
	}
	headerMIME, _, err := imgutil.ParseDataURL(dataURL)
	if err != nil {
		return domain.Character{}, errors.Join(ErrInvalidData, err)
	}
	if mimeType == "" {
		mimeType = headerMIME
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Character{}, fmt.Errorf("failed to generate character id: %w", err)
	}

	c := domain.Character{
		ID:        id.String(),
		Name:      name,
		DataURL:   dataURL,
		MIMEType:  mimeType,
		CreatedAt: g.now(),
	}

	g.mu.Lock()
	g.items = append(g.items, c)
	g.mu.Unlock()
	return c, nil
}

// AddImage は画像のバイト列からキャラクターを登録します。
func (g *Gallery) AddImage(name string, data []byte) (domain.Character, error) {
	prepared, mimeType, err := imgutil.PrepareReference(data, g.quality)
	if err != nil {
		return domain.Character{}, errors.Join(ErrInvalidData, err)
	}
	return g.Add(name, imgutil.EncodeDataURL(mimeType, prepared), mimeType)
}

// List は登録順のキャラクター一覧を返します。
func (g *Gallery) List() []domain.Character {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Character, len(g.items))
	copy(out, g.items)
	return out
}

func (g *Gallery) Get(id string) (domain.Character, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i := g.indexLocked(id); i >= 0 {
		return g.items[i], nil
	}
	return domain.Character{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete はキャラクターを削除します。選択中であれば選択も解除します。
func (g *Gallery) Delete(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	g.items = append(g.items[:i], g.items[i+1:]...)
	if g.selected == id {
		g.selected = ""
	}
	return nil
}

// Toggle は id の選択を切り替えます。選択中のものを再度指定すると解除されます。
// 戻り値は切り替え後に選択されているかどうかです。
func (g *Gallery) Toggle(id string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.indexLocked(id) < 0 {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if g.selected == id {
		g.selected = ""
		return false, nil
	}
	g.selected = id
	return true, nil
}

// Selected は選択中のキャラクターを返します。
func (g *Gallery) Selected() (domain.Character, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i := g.indexLocked(g.selected); i >= 0 {
		return g.items[i], true
	}
	return domain.Character{}, false
}

func (g *Gallery) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range g.items {
		if c.ID == id {
			return i
		}
	}
	return -1
}
