package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/shouni/gemini-video-kit/pkg/character"
	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/generator"
	"github.com/shouni/gemini-video-kit/pkg/media"
)

// ErrBusy は別の生成ジョブが実行中であることを示します。
var ErrBusy = errors.New("a generation is already in progress")

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Status は現在（または直近）の生成ジョブの状態です。
type Status struct {
	State          State                  `json:"state"`
	Message        string                 `json:"message,omitempty"`
	ErrorKind      domain.ErrorKind       `json:"error_kind,omitempty"`
	LoadingMessage string                 `json:"loading_message,omitempty"`
	Attempt        int                    `json:"attempt"`
	Video          *domain.GeneratedMedia `json:"video,omitempty"`
	StartedAt      *time.Time             `json:"started_at,omitempty"`
	FinishedAt     *time.Time             `json:"finished_at,omitempty"`
}

// Input は生成の開始パラメータです。
// 参照画像は Image、CharacterID、ギャラリーの選択中キャラクターの順で決まります。
type Input struct {
	Prompt          string
	AspectRatio     domain.AspectRatio
	CharacterID     string
	Image           *domain.ReferenceImage
	DurationSeconds *int32
}

// Studio は生成ジョブを同時にひとつだけ実行し、直近の動画ハンドルだけを保持します。
type Studio struct {
	gen     generator.Generator
	gallery *character.Gallery
	store   *media.Store
	slot    *media.Slot
	sem     *semaphore.Weighted

	mu     sync.RWMutex
	status Status

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

// New は Studio を初期化します。gen が生成する動画は store に置かれている必要があります。
func New(gen generator.Generator, gallery *character.Gallery, store *media.Store) (*Studio, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if gallery == nil {
		gallery = character.NewGallery()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Studio{
		gen:     gen,
		gallery: gallery,
		store:   store,
		slot:    media.NewSlot(store),
		sem:     semaphore.NewWeighted(1),
		status:  Status{State: StateIdle},
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
	}, nil
}

func (s *Studio) Gallery() *character.Gallery { return s.gallery }

func (s *Studio) Store() *media.Store { return s.store }

// Start は生成ジョブをバックグラウンドで開始します。
// 入力が不正な場合は検証エラーを、実行中のジョブがある場合は ErrBusy を返します。
// 開始前に前回の動画ハンドルは解放されます。
func (s *Studio) Start(in Input) error {
	req, err := s.request(in)
	if err != nil {
		return err
	}
	if err := generator.ValidateRequest(req); err != nil {
		return err
	}
	if !s.sem.TryAcquire(1) {
		return ErrBusy
	}

	s.slot.Release()
	started := s.now()
	s.mu.Lock()
	s.status = Status{
		State:          StateRunning,
		LoadingMessage: generator.LoadingMessage(0),
		StartedAt:      &started,
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(req)
	return nil
}

func (s *Studio) run(req domain.GenerationRequest) {
	defer s.wg.Done()
	defer s.sem.Release(1)

	ctx := generator.ContextWithProgress(s.ctx, func(attempt int, message string) {
		s.mu.Lock()
		s.status.Attempt = attempt
		s.status.LoadingMessage = message
		s.mu.Unlock()
	})

	result, err := s.gen.Generate(ctx, req)
	finished := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.FinishedAt = &finished
	s.status.LoadingMessage = ""
	if err != nil {
		slog.WarnContext(ctx, "動画生成に失敗しました", "kind", domain.KindOf(err), "error", err)
		s.status.State = StateFailed
		s.status.ErrorKind = domain.KindOf(err)
		s.status.Message = domain.UserMessage(err)
		return
	}

	s.slot.Replace(result.LocalHandle)
	s.status.State = StateSucceeded
	s.status.Video = result
	slog.InfoContext(ctx, "動画生成が完了しました", "handle", result.LocalHandle, "size", result.Size)
}

// Status は現在の状態のコピーを返します。
func (s *Studio) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Revoke は動画ハンドルを解放します。ref は URL と ID のどちらでも構いません。
func (s *Studio) Revoke(ref string) bool {
	_, h, ok := s.store.Open(ref)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot.Current() == h.URL {
		s.slot.Release()
	} else {
		s.store.Revoke(h.URL)
	}
	if s.status.Video != nil && s.status.Video.LocalHandle == h.URL {
		s.status.Video = nil
	}
	return true
}

// Wait は実行中のジョブの終了を待ちます。
func (s *Studio) Wait() {
	s.wg.Wait()
}

// Close は実行中のジョブを中断し、保持しているハンドルを解放します。
// プロバイダー側のジョブは停止しません。
func (s *Studio) Close() {
	s.cancel()
	s.wg.Wait()
	s.slot.Release()
}

func (s *Studio) request(in Input) (domain.GenerationRequest, error) {
	req := domain.GenerationRequest{
		Prompt:          strings.TrimSpace(in.Prompt),
		AspectRatio:     in.AspectRatio,
		ReferenceImage:  in.Image,
		DurationSeconds: in.DurationSeconds,
	}
	if req.AspectRatio == "" {
		req.AspectRatio = domain.AspectLandscape
	}
	if req.ReferenceImage != nil {
		return req, nil
	}

	if in.CharacterID != "" {
		c, err := s.gallery.Get(in.CharacterID)
		if err != nil {
			return req, domain.NewError(domain.KindValidation, "選択されたキャラクターが見つかりません。", err)
		}
		req.ReferenceImage = c.ReferenceImage()
		return req, nil
	}
	if c, ok := s.gallery.Selected(); ok {
		req.ReferenceImage = c.ReferenceImage()
	}
	return req, nil
}
