package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/verdano/creditmarket/internal/config"
	"github.com/verdano/creditmarket/internal/domain/events"
	"github.com/verdano/creditmarket/internal/domain/ledger"
	"github.com/verdano/creditmarket/internal/domain/market"
	"github.com/verdano/creditmarket/internal/domain/project"
	"github.com/verdano/creditmarket/internal/domain/token"
	"github.com/verdano/creditmarket/internal/payment"
	"github.com/verdano/creditmarket/internal/rpc"
	"github.com/verdano/creditmarket/internal/sqlite"
	"github.com/verdano/creditmarket/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logWriter := io.Writer(os.Stdout)
	if logPath := os.Getenv("CREDITMARKET_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	projectRepo := sqlite.NewProjectRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	listingRepo := sqlite.NewListingRepository(db)
	tokenRepo := sqlite.NewTokenRepository(db)
	walletRepo := sqlite.NewWalletRepository(db)
	eventRepo := sqlite.NewEventRepository(db)

	eventSvc := events.NewService(eventRepo, logger)
	projectSvc := project.NewService(projectRepo, eventSvc, logger)
	ledgerSvc := ledger.NewService(ledgerRepo, logger)
	tokenSvc := token.NewService(tokenRepo, cfg.Market.Owner, eventSvc, logger)
	gateway := payment.NewGateway(walletRepo, logger)
	walletSvc := payment.NewService(walletRepo, cfg.Market.Owner, logger)
	marketSvc := market.NewService(projectRepo, ledgerRepo, listingRepo, tokenSvc, gateway, eventSvc, cfg.Market.Custody, logger)

	handler := rpc.NewHandler(rpc.Services{
		Projects: projectSvc,
		Ledger:   ledgerSvc,
		Market:   marketSvc,
		Tokens:   tokenSvc,
		Wallet:   walletSvc,
		Events:   eventSvc,
	}, logger)

	var authMw func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		if err := bootstrapOwnerKey(db, cfg.Market.Owner, logger); err != nil {
			logger.Error("failed to bootstrap owner key", "error", err)
			os.Exit(1)
		}
		authMw = transport.AuthMiddleware(&apiKeyResolver{db: db})
	} else {
		logger.Warn("authentication disabled; callers default to the owner account")
		authMw = identityMiddleware(cfg.Market.Owner)
	}

	router := transport.NewServer(handler, authMw)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// ensureSchema creates the schema on first run.
func ensureSchema(db *sqlite.DB) error {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='projects'`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if count > 0 {
		return nil
	}
	return db.RunMigrations()
}

// bootstrapOwnerKey mints an API key for the owner account when none
// exists, logging the key once so the operator can capture it.
func bootstrapOwnerKey(db *sqlite.DB, owner string, logger *slog.Logger) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM api_keys WHERE account = ?`, owner).Scan(&count); err != nil {
		return fmt.Errorf("checking owner keys: %w", err)
	}
	if count > 0 {
		return nil
	}

	key := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO api_keys (key_hash, account, description) VALUES (?, ?, ?)`,
		hashToken(key), owner, "bootstrap owner key",
	)
	if err != nil {
		return fmt.Errorf("inserting owner key: %w", err)
	}

	logger.Info("generated owner API key", "account", owner, "key", key)
	return nil
}

// identityMiddleware assigns a fixed caller account when auth is disabled.
func identityMiddleware(account string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(transport.WithAccount(r.Context(), account)))
		})
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveAccount(ctx context.Context, apiKey string) (string, error) {
	hash := hashToken(apiKey)
	var account string
	err := r.db.QueryRowContext(ctx, `SELECT account FROM api_keys WHERE key_hash = ?`, hash).Scan(&account)
	if err != nil || account == "" {
		return "", fmt.Errorf("unauthorized: invalid api key")
	}
	_, _ = r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE key_hash = ?`, hash)
	return account, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
