package media

import "sync"

// Slot は直近の生成結果ひとつだけを保持する単一スロットです。
// Replace や Release で前のハンドルを Revoke するため、有効なハンドルは常に高々ひとつです。
type Slot struct {
	mu      sync.Mutex
	store   *Store
	current string
}

// NewSlot は store 上のハンドルを管理する Slot を返します。
func NewSlot(store *Store) *Slot {
	return &Slot{store: store}
}

// Release は現在のハンドルを解放します。
func (s *Slot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

// Replace は現在のハンドルを解放してから ref を保持します。
func (s *Slot) Replace(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == ref {
		return
	}
	s.releaseLocked()
	s.current = ref
}

// Current は保持中のハンドル URL を返します。
func (s *Slot) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Slot) releaseLocked() {
	if s.current == "" {
		return
	}
	s.store.Revoke(s.current)
	s.current = ""
}
