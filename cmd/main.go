package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"vitals-service/internal/api"
	"vitals-service/internal/config"
	"vitals-service/internal/db"
	"vitals-service/internal/kafka"
	"vitals-service/internal/logging"
	"vitals-service/internal/metrics"
	"vitals-service/internal/notification"
	"vitals-service/internal/providers"
	"vitals-service/internal/services"
	"vitals-service/internal/store"
	"vitals-service/internal/vitals"
)

const shutdownTimeout = 5 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitals-service",
		Short: "Synthetic patient vital signs service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve("")
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the refresher",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			return serve(port)
		},
	}
	cmd.Flags().String("port", "", "Listen address, overrides API_PORT")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", services.ServiceName, services.ServiceVersion)
		},
	}
}

func serve(port string) error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return err
	}
	if port != "" {
		if !strings.Contains(port, ":") {
			port = ":" + port
		}
		cfg.API.Port = port
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Printf("Failed to init logger: %v", err)
		return err
	}
	defer logger.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	ws := services.NewWebSocketManager(logger, cfg.WebSocket.MaxConnections)
	sinks := []notification.Sink{ws}

	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(
			kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.VitalsTopic),
			kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.AlertsTopic),
		)
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Errorf("Kafka producer close failed: %v", err)
			}
		}()
		sinks = append(sinks, producer)
		logger.Infof("Kafka producer enabled for %s and %s", cfg.Kafka.VitalsTopic, cfg.Kafka.AlertsTopic)
	}

	if cfg.DB.DSN != "" {
		// Connect to database
		dbConn, err := db.New(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Errorf("Failed to connect to database: %v", err)
			return err
		}
		defer func() {
			dbConn.Close()
			logger.Infof("DB connection closed")
		}()
		if err := dbConn.EnsureSchema(ctx); err != nil {
			logger.Errorf("Failed to prepare archive schema: %v", err)
			return err
		}
		sinks = append(sinks, providers.NewArchive(dbConn))
		logger.Infof("Postgres archive enabled")
	}

	if cfg.TelegramEnabled() {
		b, err := providers.NewTelegramBot(cfg.Telegram.BotToken)
		if err != nil {
			logger.Errorf("%v", err)
			return err
		}
		sinks = append(sinks, providers.NewTelegram(b, cfg.Telegram.ChatID, cfg.Telegram.RateLimit, cfg.Telegram.MinStatus, logger))
		logger.Infof("Telegram alerts enabled at status %s and above", cfg.Telegram.MinStatus)
	}

	var wg sync.WaitGroup
	dispatcher := notification.New(logger, m, cfg.Notification.QueueSize, cfg.Notification.MaxWorkers, sinks...)
	dispatcher.Start(&wg)
	logger.Infof("Dispatching events to %s", strings.Join(dispatcher.Sinks(), ", "))

	monitor := services.New(store.NewPatternStore(), store.NewLiveCache(), vitals.NewGenerator(), dispatcher, logger, services.WithMetrics(m))
	monitor.Start(ctx, &wg, cfg.Refresh.Interval, cfg.Refresh.Backoff)

	if cfg.KafkaEnabled() && cfg.Kafka.OverrideTopic != "" {
		reader := kafka.NewReader(cfg.Kafka.Brokers, cfg.Kafka.OverrideTopic, cfg.Kafka.GroupID)
		kafka.NewConsumer(reader, monitor, logger).Start(ctx, &wg)
	}

	gin.SetMode(cfg.API.GinMode)
	srv := &http.Server{
		Addr:    cfg.API.Port,
		Handler: api.NewRouter(monitor, ws, logger, m),
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	var runErr error
	select {
	case s := <-sig:
		logger.Infof("Received %s, shutting down...", s)
	case runErr = <-serverErr:
		logger.Errorf("API run failed: %v", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("API shutdown failed: %v", err)
	}

	cancel()
	dispatcher.Stop()
	wg.Wait()
	logger.Infof("Service stopped")
	return runErr
}
