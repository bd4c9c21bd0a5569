package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/devbridge/devbridge/internal/adb"
	"github.com/devbridge/devbridge/internal/artifact"
	"github.com/devbridge/devbridge/internal/config"
	"github.com/devbridge/devbridge/internal/github"
	httpsvr "github.com/devbridge/devbridge/internal/http"
	mcpsvr "github.com/devbridge/devbridge/internal/mcp"
)

var (
	version   = "0.1.0"
	gitCommit = ""
	buildTime = ""
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "devbridge",
		Short:         "MCP server bridging GitHub pull requests and Android devices",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfgPath)
		},
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "optional YAML config file")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfgPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("devbridge %s", version)
			if gitCommit != "" {
				fmt.Printf(" (%s)", gitCommit)
			}
			if buildTime != "" {
				fmt.Printf(" built %s", buildTime)
			}
			fmt.Println()
		},
	})
	return cmd
}

func serve(cfgPath string) error {
	// stdout carries protocol frames; every diagnostic goes to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("config load failed", "err", err)
		return err
	}

	logger.Info("effective config",
		"default_owner", cfg.DefaultOwner,
		"default_repo", cfg.DefaultRepo,
		"adb_path", cfg.ADBPath,
		"summaries_dir", cfg.SummariesDir,
		"bugreports_dir", cfg.BugreportsDir,
		"github_token_present", cfg.GitHubToken != "",
	)

	ghClient := github.NewClient(cfg.GitHubToken, cfg.GitHubAPIBase, "devbridge/"+version)
	adbRunner := adb.NewRunner(cfg.ADBPath)
	store := artifact.NewStore(cfg.SummariesDir, cfg.BugreportsDir)

	if cfg.MetricsListen != "" {
		metricsServer := httpsvr.NewServer(cfg.MetricsListen, logger, httpsvr.BuildInfo{
			Version:   version,
			GitCommit: gitCommit,
			BuildTime: buildTime,
		})
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil {
				logger.Error("metrics server error", "err", err)
			}
		}()
	}

	srv := mcpsvr.NewServer(cfg, ghClient, adbRunner, store, logger, version)
	if err := srv.Serve(); err != nil {
		logger.Error("mcp server error", "err", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
