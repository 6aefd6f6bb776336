package cmd

import (
	"fmt"
	"os"

	"github.com/frahmantamala/idea-portal/internal/mail"
	"github.com/frahmantamala/idea-portal/internal/tasks"
	"github.com/frahmantamala/idea-portal/pkg/logger"
	"github.com/frahmantamala/idea-portal/pkg/queue"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background mail worker",
	Long:  `Start the asynq worker that delivers signup codes by email.`,
	Run: func(cmd *cobra.Command, args []string) {
		startWorker()
	},
}

var workerConcurrency int

func startWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	srv := queue.NewServer(&config.Redis, workerConcurrency)

	handler := tasks.NewHandler(mail.NewSender(config.SMTP, logger), logger, config.Security.OTPTTL)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	logger.Info("worker started, waiting for tasks...",
		"concurrency", workerConcurrency,
		"smtp_enabled", config.SMTP.Enabled())

	// Run blocks until SIGINT or SIGTERM and then drains in-flight tasks
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("worker stopped")
}

func init() {
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 10, "Number of concurrent task processors")
}
