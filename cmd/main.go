package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/okorneva/cloudstore/internal/api/http/router"
	httpServer "github.com/okorneva/cloudstore/internal/api/http/server"
	"github.com/okorneva/cloudstore/internal/config"
	"github.com/okorneva/cloudstore/internal/logger"
	"github.com/okorneva/cloudstore/internal/model"
	"github.com/okorneva/cloudstore/internal/repository/memory"
	"github.com/okorneva/cloudstore/internal/repository/postgres"
	"github.com/okorneva/cloudstore/internal/server"
	"github.com/okorneva/cloudstore/internal/service"
	storage "github.com/okorneva/cloudstore/internal/storage/minio"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	var (
		userStore model.UserStore
		fileStore model.FileStore
	)
	if cfg.Database.DSN == "" {
		logger.Info("no database DSN configured, using in-memory store")
		userStore = memory.NewUserStore()
		fileStore = memory.NewFileStore()
	} else {
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err)
		}
		defer db.Close()

		userStore = postgres.NewUserRepository(db)
		fileStore = postgres.NewFileRepository(db)
	}

	var blobs model.BlobStore
	if cfg.Storage.Mode == "s3" {
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to create minio client", "error", err)
		}
		blobs, err = storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
	}

	if err := seedUsers(ctx, userStore, cfg.SeedUsers, logger); err != nil {
		logger.Fatal("failed to seed users", "error", err)
	}

	sessionService := service.NewSession(userStore, logger)
	fileService := service.NewFiles(fileStore, sessionService, blobs, logger)

	r := router.New(sessionService, fileService, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// seedUsers provisions accounts from comma-separated "login:passwordHash"
// pairs. Already-registered logins are left untouched.
func seedUsers(ctx context.Context, userStore model.UserStore, seed string, logger *logger.Logger) error {
	if seed == "" {
		return nil
	}

	for _, pair := range strings.Split(seed, ",") {
		login, passwordHash, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || login == "" || passwordHash == "" {
			return fmt.Errorf("malformed seed entry %q", pair)
		}

		_, err := userStore.Save(ctx, model.User{Login: login, PasswordHash: passwordHash})
		if errors.Is(err, model.ErrLoginTaken) {
			logger.Debug("seed user already exists", "login", login)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create seed user %q: %w", login, err)
		}
		logger.Info("seed user created", "login", login)
	}

	return nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
