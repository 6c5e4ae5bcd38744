package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

var aspectsCmd = &cobra.Command{
	Use:   "aspects",
	Short: "List supported aspect ratios",
	Run: func(cmd *cobra.Command, args []string) {
		for _, opt := range domain.AspectRatioOptions {
			fmt.Printf("%s  %s\n", labelStyle.Render(fmt.Sprintf("%-5s", opt.Value)), opt.Label)
		}
	},
}
