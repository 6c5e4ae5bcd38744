package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/gemini-video-kit/pkg/adapters"
	"github.com/shouni/gemini-video-kit/pkg/character"
	"github.com/shouni/gemini-video-kit/pkg/server"
	"github.com/shouni/gemini-video-kit/pkg/studio"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: listen_addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	gallery := character.NewGallery(character.WithJPEGQuality(a.cfg.ReferenceQuality()))
	st, err := studio.New(a.generator, gallery, a.store)
	if err != nil {
		return err
	}
	// HTTP 経由ではローカルファイルを読ませない
	loader, err := adapters.NewImageLoader(a.imageClient, nil)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.ListenAddr
	}
	srv, err := server.New(server.Config{Addr: addr, Studio: st, Images: loader})
	if err != nil {
		return err
	}

	printInfo("HTTP API: http://%s", displayAddr(srv.Addr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		st.Close()
		return nil
	})
	return g.Wait()
}
