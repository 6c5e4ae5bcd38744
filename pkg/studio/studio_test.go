package studio

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-video-kit/pkg/character"
	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/generator"
	"github.com/shouni/gemini-video-kit/pkg/media"
)

// fakeGenerator は store にハンドルを作って返すだけの Generator です。
// release が設定されている場合はチャネルが閉じられるまでブロックします。
type fakeGenerator struct {
	store   *media.Store
	release chan struct{}
	err     error

	mu       sync.Mutex
	requests []domain.GenerationRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedMedia, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, domain.NewError(domain.KindCanceled, "中断", ctx.Err())
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	h, err := f.store.Create([]byte("video"), "video/mp4")
	if err != nil {
		return nil, err
	}
	return &domain.GeneratedMedia{SourceURI: "https://example.com/v.mp4", LocalHandle: h.URL, MIMEType: h.MIMEType, Size: h.Size}, nil
}

func (f *fakeGenerator) lastRequest() domain.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

var _ generator.Generator = (*fakeGenerator)(nil)

func newStudio(t *testing.T, gen *fakeGenerator) *Studio {
	t.Helper()
	s, err := New(gen, character.NewGallery(), gen.store)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStudio_Start(t *testing.T) {
	t.Run("成功すると動画が状態に反映される", func(t *testing.T) {
		gen := &fakeGenerator{store: media.NewStore()}
		s := newStudio(t, gen)

		require.NoError(t, s.Start(Input{Prompt: "a cat", AspectRatio: domain.AspectSquare}))
		s.Wait()

		st := s.Status()
		assert.Equal(t, StateSucceeded, st.State)
		require.NotNil(t, st.Video)
		assert.NotNil(t, st.FinishedAt)
		assert.Equal(t, 1, gen.store.Len())
	})

	t.Run("空のプロンプトは開始しない", func(t *testing.T) {
		gen := &fakeGenerator{store: media.NewStore()}
		s := newStudio(t, gen)

		err := s.Start(Input{Prompt: "  "})
		assert.ErrorIs(t, err, domain.KindValidation)
		assert.Equal(t, StateIdle, s.Status().State)
		assert.Empty(t, gen.requests)
	})

	t.Run("実行中は二つ目のジョブを拒否する", func(t *testing.T) {
		gen := &fakeGenerator{store: media.NewStore(), release: make(chan struct{})}
		s := newStudio(t, gen)

		require.NoError(t, s.Start(Input{Prompt: "first"}))
		assert.ErrorIs(t, s.Start(Input{Prompt: "second"}), ErrBusy)
		assert.Equal(t, StateRunning, s.Status().State)

		close(gen.release)
		s.Wait()
		assert.Equal(t, StateSucceeded, s.Status().State)
		assert.NoError(t, s.Start(Input{Prompt: "third"}))
		s.Wait()
	})

	t.Run("失敗は利用者向けメッセージで保持する", func(t *testing.T) {
		gen := &fakeGenerator{
			store: media.NewStore(),
			err:   domain.NewError(domain.KindQuota, "上限です", nil),
		}
		s := newStudio(t, gen)

		require.NoError(t, s.Start(Input{Prompt: "a cat"}))
		s.Wait()

		st := s.Status()
		assert.Equal(t, StateFailed, st.State)
		assert.Equal(t, domain.KindQuota, st.ErrorKind)
		assert.Equal(t, "上限です", st.Message)
		assert.Nil(t, st.Video)
	})

	t.Run("Close で実行中のジョブを中断する", func(t *testing.T) {
		gen := &fakeGenerator{store: media.NewStore(), release: make(chan struct{})}
		s, err := New(gen, nil, gen.store)
		require.NoError(t, err)

		require.NoError(t, s.Start(Input{Prompt: "a cat"}))
		s.Close()
		st := s.Status()
		assert.Equal(t, StateFailed, st.State)
		assert.Equal(t, domain.KindCanceled, st.ErrorKind)
	})
}

func TestStudio_SingleLiveHandle(t *testing.T) {
	gen := &fakeGenerator{store: media.NewStore()}
	s := newStudio(t, gen)

	var previous string
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Start(Input{Prompt: "a cat"}))
		s.Wait()

		st := s.Status()
		require.NotNil(t, st.Video)
		assert.Equal(t, 1, gen.store.Len())
		if previous != "" {
			_, _, ok := gen.store.Open(previous)
			assert.False(t, ok, "previous handle must be revoked")
		}
		previous = st.Video.LocalHandle
	}

	t.Run("Revoke で解放し状態からも外す", func(t *testing.T) {
		assert.True(t, s.Revoke(previous))
		assert.Equal(t, 0, gen.store.Len())
		assert.Nil(t, s.Status().Video)
		assert.False(t, s.Revoke(previous))
	})
}

func TestStudio_ReferenceImage(t *testing.T) {
	gen := &fakeGenerator{store: media.NewStore()}
	s := newStudio(t, gen)
	g := s.Gallery()

	a, err := g.Add("A", "data:image/png;base64,AAAA", "")
	require.NoError(t, err)
	b, err := g.Add("B", "data:image/jpeg;base64,BBBB", "")
	require.NoError(t, err)

	t.Run("参照画像なし", func(t *testing.T) {
		require.NoError(t, s.Start(Input{Prompt: "p"}))
		s.Wait()
		req := gen.lastRequest()
		assert.Nil(t, req.ReferenceImage)
		assert.Equal(t, domain.AspectLandscape, req.AspectRatio)
	})

	t.Run("選択中のキャラクターを使う", func(t *testing.T) {
		_, err := g.Toggle(a.ID)
		require.NoError(t, err)
		require.NoError(t, s.Start(Input{Prompt: "p"}))
		s.Wait()
		require.NotNil(t, gen.lastRequest().ReferenceImage)
		assert.Equal(t, a.DataURL, gen.lastRequest().ReferenceImage.DataURL)
	})

	t.Run("CharacterID は選択より優先", func(t *testing.T) {
		require.NoError(t, s.Start(Input{Prompt: "p", CharacterID: b.ID}))
		s.Wait()
		assert.Equal(t, "image/jpeg", gen.lastRequest().ReferenceImage.MIMEType)
	})

	t.Run("存在しない CharacterID", func(t *testing.T) {
		err := s.Start(Input{Prompt: "p", CharacterID: "missing"})
		assert.ErrorIs(t, err, domain.KindValidation)
	})
}
