package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/chain"
	claimsDomain "github.com/Gamemaster8888/dreamplay-claim-portal/internal/claims/domain"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/config"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/observability/metrics"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/server"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "claim-portal-server",
		Short:   "DreamPlay claim portal - EIP-712 claim signing endpoint",
		Version: version,
	}

	// Default behavior (no subcommand) is to serve
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe()
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSignerCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newSignerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signer",
		Short: "Inspect the signing key",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "address",
		Short: "Print the address derived from the signer private key",
		Long: `Print the address derived from the signer private key.

Reads SIGNER_PRIVATE_KEY from the environment; when it is unset, the key
is prompted for without echo. Use this to find the address the verifying
contract must trust.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignerAddress()
		},
	})

	return cmd
}

func runSignerAddress() error {
	raw := os.Getenv("SIGNER_PRIVATE_KEY")
	if raw == "" {
		fmt.Fprint(os.Stderr, "Signer private key: ")
		keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		raw = strings.TrimSpace(string(keyBytes))
	}

	key, err := parseSignerKey(raw)
	if err != nil {
		return err
	}

	fmt.Println(crypto.PubkeyToAddress(key.PublicKey).Hex())
	return nil
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg)
	logger.Info("starting claim-portal-server", "version", version)

	key, err := parseSignerKey(cfg.Signing.PrivateKey)
	if err != nil {
		return err
	}
	logger.Info("signer loaded", "address", crypto.PubkeyToAddress(key.PublicKey).Hex())

	metrics.Init(cfg.Metrics.Enabled)

	dialCtx, cancelDial := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := chain.Dial(dialCtx, cfg.Chain.RPCURL)
	cancelDial()
	if err != nil {
		return err
	}
	defer client.Close()

	svc := claimsDomain.NewService(client, key, claimsDomain.Config{
		NFTContract:   common.HexToAddress(cfg.Chain.NFTContract),
		StoreContract: common.HexToAddress(cfg.Chain.StoreContract),
		DomainName:    cfg.Signing.DomainName,
		DomainVersion: cfg.Signing.DomainVersion,
		TierOffset:    cfg.Signing.TierOffset,
		MinTier:       cfg.Signing.MinTier,
	})
	wrapped := claimsDomain.LoggingMiddleware(logger)(svc)

	srv := server.New(cfg, wrapped, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Metrics.Port),
			Handler: srv.MetricsHandler(),
		}
		go func() {
			logger.Info("metrics listening", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("metrics shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func parseSignerKey(raw string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parsing signer private key: %w", err)
	}
	return key, nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
