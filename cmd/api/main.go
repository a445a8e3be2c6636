package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/publication-admin/internal/config"
	"github.com/publication-admin/internal/infrastructure/dynamo"
	jwtinfra "github.com/publication-admin/internal/infrastructure/jwt"
	"github.com/publication-admin/internal/infrastructure/mlservice"
	"github.com/publication-admin/internal/infrastructure/postgres"
	s3infra "github.com/publication-admin/internal/infrastructure/s3"
	"github.com/publication-admin/internal/infrastructure/smtp"
	"github.com/publication-admin/internal/metrics"
	transporthttp "github.com/publication-admin/internal/transport/http"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	emailCodes, err := newEmailCodeStore(ctx, cfg, db)
	if err != nil {
		return err
	}

	s3Client, err := s3infra.NewClient(ctx, cfg.MediaStorage)
	if err != nil {
		return err
	}
	media := s3infra.NewStore(s3Client, cfg.MediaStorage.Bucket, cfg.MediaStorage.URL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	mlOpts := mlservice.Options{Timeout: cfg.MLServiceTimeout, ConnectTimeout: cfg.MLServiceConnectTimeout}
	images := mlservice.NewImagesClient(mlservice.NewClient("ml_images", cfg.MLImagesServiceURL, mlOpts, collector))
	text := mlservice.NewTextClient(mlservice.NewClient("ml_text", cfg.MLTextServiceURL, mlOpts, collector))

	var delivery smtp.Mailer = smtp.NewMailer(cfg.Mail)
	if cfg.IsLocal() {
		delivery = smtp.LogMailer{Logger: slog.Default()}
	}
	mailQueue := smtp.NewQueue(delivery, cfg.Mail.QueueSize)
	queueDone := make(chan struct{})
	go func() {
		defer close(queueDone)
		mailQueue.Run(ctx)
	}()

	tokens, err := jwtinfra.NewProvider(cfg.SecretKey, cfg.JWTExpiry)
	if err != nil {
		return err
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Users:      postgres.NewUserRepo(db),
		EmailCodes: emailCodes,
		Avatars:    postgres.NewAvatarRepo(db),
		Posts:      postgres.NewPostRepo(db),
		Topics:     postgres.NewTopicRepo(db),
		Media:      media,
		Images:     images,
		Text:       text,
		Mailer:     mailQueue,
		Tokens:     tokens,
		Metrics:    collector,
		Gatherer:   reg,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// ML calls may take up to MLServiceTimeout.
		WriteTimeout: cfg.MLServiceTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "email_code_store", cfg.EmailCodeStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-queueDone
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	<-queueDone
	slog.Info("server stopped")
	return nil
}

// newEmailCodeStore picks the backend named by EMAIL_CODE_STORE.
func newEmailCodeStore(ctx context.Context, cfg *config.Config, db *sql.DB) (transporthttp.EmailCodeRepository, error) {
	if cfg.EmailCodeStore != config.EmailCodeStoreDynamo {
		return postgres.NewEmailCodeRepo(db), nil
	}
	client, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
	return dynamo.NewEmailCodeRepo(client, cfg.DynamoTables.EmailCodes), nil
}
