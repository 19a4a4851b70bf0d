package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/client"
	"github.com/BerylCAtieno/ai-stack-agent/internal/config"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	baseURL      string
	timeout      time.Duration
	outputFormat string
	speak        bool
	verbose      bool
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ai-stack",
		Short: "Discover the AI tools that fit your business",
		Long: `ai-stack asks five quick questions about your business, generates a
personalized AI tool stack and shows (or reads aloud) the result.

Examples:
  # Answer the questionnaire
  ai-stack questionnaire

  # Show a stack you already generated
  ai-stack stack 3f1c... -o yaml

  # Start the strategy session checkout
  ai-stack checkout`,
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", config.String("API_URL", "http://localhost:8080"), "Base URL of the API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "HTTP timeout")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&speak, "speak", false, "Read the result aloud")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newQuestionnaireCmd(),
		newStackCmd(),
		newCheckoutCmd(),
		newHealthCmd(),
	)
	return rootCmd
}

func newAPIClient() *client.Client {
	return client.New(baseURL, timeout)
}

func newLogger() *logger.Logger {
	if !verbose {
		return logger.NewNop()
	}
	log, err := logger.New("development")
	if err != nil {
		return logger.NewNop()
	}
	return log
}

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	return s
}

func printHeader(title string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println(title)
	fmt.Printf("📍 API: %s\n", baseURL)
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Printf("✗ %s\n", msg)
}
