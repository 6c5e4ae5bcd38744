package generator

import (
	"context"
	"sync"
	"time"

	"google.golang.org/genai"
)

// --- Mocks ---

type mockVideoModel struct {
	mu          sync.Mutex
	submitFunc  func(ctx context.Context, model, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	pollFunc    func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
	submitCalls int
	pollCalls   int
	lastModel   string
	lastPrompt  string
	lastImage   *genai.Image
	lastConfig  *genai.GenerateVideosConfig
}

func (m *mockVideoModel) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	m.mu.Lock()
	m.submitCalls++
	m.lastModel, m.lastPrompt, m.lastImage, m.lastConfig = model, prompt, image, cfg
	m.mu.Unlock()
	if m.submitFunc != nil {
		return m.submitFunc(ctx, model, prompt, image, cfg)
	}
	return &genai.GenerateVideosOperation{Name: "operations/test"}, nil
}

func (m *mockVideoModel) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	m.mu.Lock()
	m.pollCalls++
	m.mu.Unlock()
	if m.pollFunc != nil {
		return m.pollFunc(ctx, op)
	}
	return op, nil
}

func (m *mockVideoModel) calls() (submit, poll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitCalls, m.pollCalls
}

// newScriptedModel は pendingPolls 回「未完了」を返した後に final を返すプロバイダーです。
func newScriptedModel(pendingPolls int, final *genai.GenerateVideosOperation) *mockVideoModel {
	m := &mockVideoModel{}
	m.pollFunc = func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		m.mu.Lock()
		n := m.pollCalls
		m.mu.Unlock()
		if n <= pendingPolls {
			return &genai.GenerateVideosOperation{Name: op.Name}, nil
		}
		return final, nil
	}
	return m
}

func doneWithVideo(uri string) *genai.GenerateVideosOperation {
	return &genai.GenerateVideosOperation{
		Name: "operations/test",
		Done: true,
		Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{URI: uri, MIMEType: "video/mp4"}}},
		},
	}
}

func doneWithError(code int, message string) *genai.GenerateVideosOperation {
	return &genai.GenerateVideosOperation{
		Name:  "operations/test",
		Done:  true,
		Error: map[string]any{"code": float64(code), "message": message},
	}
}

type mockHTTPClient struct {
	mu      sync.Mutex
	data    []byte
	err     error
	calls   int
	lastURL string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastURL = url
	return m.data, m.err
}

// sleepRecorder は実際には待たずに待機時間だけを記録します。
type sleepRecorder struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.slept = append(r.slept, d)
	r.mu.Unlock()
	return ctx.Err()
}
