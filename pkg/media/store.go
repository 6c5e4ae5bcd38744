package media

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// URLPrefix はローカルハンドルの URL 接頭辞です（ブラウザの object URL に相当）。
const URLPrefix = "blob:veo/"

// ErrEmpty は空のデータからハンドルを作ろうとしたことを示します。
var ErrEmpty = errors.New("media: empty data")

// Handle はプロセス内に保持された動画データへの参照です。
type Handle struct {
	ID        string
	URL       string
	MIMEType  string
	Size      int
	CreatedAt time.Time
}

type entry struct {
	handle Handle
	data   []byte
}

// Store はローカルハンドルとその実体を保持します。
// Create で所有権を受け取ったデータは Revoke されるまで解放されません。
type Store struct {
	mu    sync.RWMutex
	items map[string]*entry
	now   func() time.Time
}

// NewStore は空の Store を返します。
func NewStore() *Store {
	return &Store{
		items: make(map[string]*entry),
		now:   time.Now,
	}
}

// Create はデータを登録し、新しいハンドルを返します。data は呼び出し後に変更しないでください。
func (s *Store) Create(data []byte, mimeType string) (Handle, error) {
	if len(data) == 0 {
		return Handle{}, ErrEmpty
	}
	id := uuid.NewString()
	h := Handle{
		ID:        id,
		URL:       URLPrefix + id,
		MIMEType:  mimeType,
		Size:      len(data),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.items[id] = &entry{handle: h, data: data}
	s.mu.Unlock()
	return h, nil
}

// Open はハンドル（URL または ID）に紐づくデータを返します。
func (s *Store) Open(ref string) ([]byte, Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[handleID(ref)]
	if !ok {
		return nil, Handle{}, false
	}
	return e.data, e.handle, true
}

// Revoke はハンドルを無効化し、データを解放します。未登録なら false を返します。
func (s *Store) Revoke(ref string) bool {
	id := handleID(ref)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// Len は有効なハンドルの数を返します。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func handleID(ref string) string {
	return strings.TrimPrefix(ref, URLPrefix)
}
