// boardctl 在终端中浏览卡片看板，复用服务端的视图组装逻辑
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"ForecastBoard/internal/adapter/cardapi"
	"ForecastBoard/internal/cache"
	"ForecastBoard/internal/config"
	"ForecastBoard/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	baseURL    string
	verbose    bool
	timeout    time.Duration

	cardService *service.CardService
)

var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "Browse AI-adjusted prediction market cards from the terminal",
	Long: `boardctl fetches cards from the upstream card API and renders them
with the same rows, tones and summaries the dashboard shows.

Available subcommands:
  list - List cards (filter by tag, sort by volume or liquidity)
  show - Show one card with per-market detail
  tags - Print the tag filter table`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfigFrom(configPath)
	if err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}
	if baseURL != "" {
		cfg.Upstream.BaseURL = baseURL
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if verbose {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetLevel(logrus.DebugLevel)
	}

	source := cardapi.NewCardAPIAdapter(&cfg.Upstream, logger)
	cardService = service.NewCardService(source, cache.NewLoader(nil, logger), nil, service.NewTagTable(cfg.Tags), service.CardOptions{
		View:            service.ViewOptions{ShowHighBias: cfg.Display.ShowHighBias},
		DefaultPageSize: cfg.Upstream.DefaultPageSize,
	}, logger)
	return nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override upstream card API base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log upstream requests to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall command timeout")

	rootCmd.AddCommand(listCmd, showCmd, tagsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
