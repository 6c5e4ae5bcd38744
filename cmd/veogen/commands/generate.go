package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-video-kit/pkg/adapters"
	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/generator"
	"github.com/shouni/gemini-video-kit/pkg/imgutil"
)

var (
	genPrompt   string
	genAspect   string
	genImage    string
	genDuration int32
	genOutput   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a video and save it to a file",
	Long: `プロンプトから動画を生成し、完了まで待ってからファイルに保存します。

--image にはローカルファイルのパスか http(s) の URL を指定できます。
出力先を省略すると video-veo-<unix ms>.mp4 に保存します。`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genPrompt, "prompt", "p", "", "text prompt (required)")
	generateCmd.Flags().StringVarP(&genAspect, "aspect", "a", string(domain.AspectLandscape), "aspect ratio (1:1, 16:9, 9:16, 4:3, 3:4)")
	generateCmd.Flags().StringVar(&genImage, "image", "", "reference image file or URL")
	generateCmd.Flags().Int32Var(&genDuration, "duration", 0, "video length in seconds (0: provider default)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output file")
	_ = generateCmd.MarkFlagRequired("prompt")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	req := domain.GenerationRequest{
		Prompt:      genPrompt,
		AspectRatio: domain.AspectRatio(genAspect),
	}
	if genDuration > 0 {
		req.DurationSeconds = &genDuration
	}
	if genImage != "" {
		ref, err := loadReference(ctx, a, genImage)
		if err != nil {
			return err
		}
		req.ReferenceImage = ref
	}

	printInfo("生成を開始します: %s (%s)", req.Prompt, req.AspectRatio)
	start := time.Now()
	ctx = generator.ContextWithProgress(ctx, func(attempt int, message string) {
		printProgress(attempt, message, time.Since(start))
	})

	result, err := a.generator.Generate(ctx, req)
	if err != nil {
		printError("%s", domain.UserMessage(err))
		return err
	}
	defer a.store.Revoke(result.LocalHandle)

	data, _, ok := a.store.Open(result.LocalHandle)
	if !ok {
		return fmt.Errorf("generated media is no longer available: %s", result.LocalHandle)
	}
	output := genOutput
	if output == "" {
		output = result.DownloadFileName()
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	printSuccess("動画を保存しました: %s (%s, %.1fs)", output, formatBytes(len(data)), time.Since(start).Seconds())
	return nil
}

// loadReference はファイルまたは URL から参照画像を読み込み、data URL に変換します。
func loadReference(ctx context.Context, a *app, src string) (*domain.ReferenceImage, error) {
	loader, err := adapters.NewImageLoader(a.imageClient, a.reader)
	if err != nil {
		return nil, err
	}
	data, err := loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference image: %w", err)
	}

	prepared, mimeType, err := imgutil.PrepareReference(data, a.cfg.ReferenceQuality())
	if err != nil {
		return nil, fmt.Errorf("invalid reference image %s: %w", src, err)
	}
	return &domain.ReferenceImage{DataURL: imgutil.EncodeDataURL(mimeType, prepared), MIMEType: mimeType}, nil
}
