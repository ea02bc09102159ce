package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimstream/internal/asr"
)

var healthTimeout time.Duration

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the transcription service is up",
	Long: `Probe the transcription service health endpoint and report whether
the model is loaded and ready to accept audio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if processASRURL != "" {
			cfg.ASR.BaseURL = processASRURL
		}

		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()

		client := asr.NewClient(cfg.ASR.BaseURL, healthTimeout, cfg.HTTP.MaxRetries)
		if err := client.Health(ctx); err != nil {
			return fmt.Errorf("transcription service at %s is not ready: %w", cfg.ASR.BaseURL, err)
		}
		fmt.Printf("Transcription service at %s is ready.\n", cfg.ASR.BaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 10*time.Second, "probe timeout")
	healthCmd.Flags().StringVar(&processASRURL, "asr-url", "", "transcription service base URL")
}
