package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shouni/gemini-video-kit/pkg/studio"
)

const (
	DefaultAddr     = ":8080"
	shutdownTimeout = 5 * time.Second
	maxUploadBytes  = 20 << 20
)

// ImageLoader は外部 URL から参照画像を取得します。
type ImageLoader interface {
	Load(ctx context.Context, rawURL string) ([]byte, error)
}

// Config は HTTP サーバーの依存関係です。
type Config struct {
	Addr   string
	Studio *studio.Studio
	// Images が nil の場合、http(s) の画像 URL からのキャラクター登録は受け付けません。
	Images ImageLoader
	// MaxUploadBytes はアップロード画像の上限です。0 の場合は 20 MiB です。
	MaxUploadBytes int64
}

// Server は動画生成の HTTP API を提供します。
type Server struct {
	addr   string
	router *gin.Engine
}

// New は gin のルーターを組み立てて Server を返します。
func New(cfg Config) (*Server, error) {
	if cfg.Studio == nil {
		return nil, errors.New("studio is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = maxUploadBytes
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.MaxMultipartMemory = maxUploadBytes
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h := &handler{studio: cfg.Studio, images: cfg.Images, maxUpload: cfg.MaxUploadBytes}
	h.register(router.Group("/api"))

	return &Server{addr: cfg.Addr, router: router}, nil
}

// requestLogger はリクエストごとにステータスと所要時間を記録します。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "HTTP",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"dur", time.Since(start))
	}
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler はテストなどで直接利用するための http.Handler を返します。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start は ctx がキャンセルされるかエラーが発生するまで HTTP サーバーを実行します。
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	slog.InfoContext(ctx, "HTTPサーバーを起動しました", "addr", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
