package commands

import (
	"context"
	"fmt"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/gemini-video-kit/pkg/adapters"
	"github.com/shouni/gemini-video-kit/pkg/config"
	"github.com/shouni/gemini-video-kit/pkg/generator"
	"github.com/shouni/gemini-video-kit/pkg/media"
)

// app はコマンド間で共有する依存関係です。
type app struct {
	cfg         *config.Config
	store       *media.Store
	imageClient httpkit.ClientInterface
	reader      remoteio.InputReader
	generator   *generator.VideoGenerator
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	client, err := adapters.NewGenAIClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	model, err := adapters.NewGenAIVideoModel(client)
	if err != nil {
		return nil, err
	}

	store := media.NewStore()
	gen, err := generator.NewVideoGenerator(model, adapters.NewVideoFetcher(), store, cfg.APIKey,
		generator.WithModelName(cfg.Model),
		generator.WithPollPolicy(cfg.PollPolicy()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	return &app{
		cfg:         cfg,
		store:       store,
		imageClient: adapters.NewImageClient(),
		reader:      adapters.LocalFileReader{},
		generator:   gen,
	}, nil
}
