// Package main は Veo 動画生成 CLI です。
//
// Usage:
//
//	veogen [flags] <command> [args]
//
// Commands:
//
//	generate  - プロンプトから動画を生成してファイルに保存
//	serve     - HTTP API サーバーを起動
//	aspects   - 指定可能な縦横比を表示
//
// APIキーは GEMINI_API_KEY（または API_KEY）環境変数か .env から読み込みます。
package main

import (
	"fmt"
	"os"

	"github.com/shouni/gemini-video-kit/cmd/veogen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
