package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/config"
	"github.com/Lixing-Zhang/menuwal/pkg/logger"
	"github.com/spf13/cobra"
)

var menusFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the menu API server",
	Long: `Run the menu API server.

With STORE_DRIVER=memory the server starts empty; pass --menus to load a JSON
array of menus. With STORE_DRIVER=mongo menus are read from MongoDB.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&menusFile, "menus", "", "JSON file of menus to load into the in-memory store")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting menuwal api server",
		"version", version,
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store", cfg.Store.Driver,
		"log_level", cfg.LogLevel,
	)

	seed, err := loadMenus(menusFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log, seed)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.close(context.Background(), log)
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	shutdownErr := srv.Shutdown(shutdownCtx)
	a.close(shutdownCtx, log)
	if shutdownErr != nil {
		return fmt.Errorf("server forced to shutdown: %w", shutdownErr)
	}

	log.Info("server stopped gracefully")
	return nil
}
