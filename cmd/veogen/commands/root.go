package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "veogen",
	Short: "Veo video generation CLI",
	Long: `veogen - Google Veo を使ってテキスト（と参照画像）から動画を生成します。

Examples:
  # 動画を生成して保存
  veogen generate -p "夕焼けの海辺を走る柴犬" -a 16:9

  # キャラクター画像を参照して生成
  veogen generate -p "手を振って挨拶する" --image ./alice.png -o alice.mp4

  # HTTP API を起動
  veogen serve --addr :8080
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute はサブコマンドを登録してルートコマンドを実行します。
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML/TOML/JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(aspectsCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
