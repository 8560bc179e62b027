package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/c14220110/igd-dashboard/config"
	"github.com/c14220110/igd-dashboard/internal/common/middlewares"
	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/internal/igd/services"
	"github.com/c14220110/igd-dashboard/internal/routes"
	"github.com/c14220110/igd-dashboard/pkg/messaging"
	"github.com/c14220110/igd-dashboard/pkg/storage/objectstore"
	"github.com/c14220110/igd-dashboard/ws"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "igd-dashboard",
		Short: "Backend dashboard pasien IGD",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Jalankan API server dan websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Impor data pasien dari file backup JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			logger := newLogger(cfg)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			items, err := services.ParseImpor(data)
			if err != nil {
				return err
			}

			svc, _, _, err := bootstrap(cfg, logger, nil, messaging.NoopPublisher{})
			if err != nil {
				return err
			}
			if _, err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			hasil, notif, err := svc.Import(cmd.Context(), items)
			if err != nil {
				return err
			}
			logger.Info().
				Int("imported", hasil.Imported).
				Int("skipped", hasil.Skipped).
				Int("failed", hasil.Failed).
				Msg(notif.Pesan)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Tulis backup JSON seluruh data pasien",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			logger := newLogger(cfg)

			svc, _, _, err := bootstrap(cfg, logger, nil, messaging.NoopPublisher{})
			if err != nil {
				return err
			}
			n, err := svc.Load(cmd.Context())
			if err != nil {
				return err
			}
			data, err := services.Ekspor(svc.Snapshot())
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			logger.Info().Int("jumlah", n).Str("file", args[0]).Msg("backup ditulis")
			return nil
		},
	}
}

// bootstrap memilih store dan merakit PasienService.
func bootstrap(cfg *config.Config, logger zerolog.Logger, hub services.Broadcaster, pub messaging.PublisherInterface) (*services.PasienService, *services.StoreSelector, services.InfoStore, error) {
	selector := services.NewStoreSelector(cfg, logger)
	st, info, err := selector.Pilih()
	if err != nil {
		return nil, nil, services.InfoStore{}, err
	}

	svc := services.NewPasienService(st, hub, pub, logger)
	fields, err := models.ParseFieldPencarian(cfg.SearchFields)
	if err != nil {
		return nil, nil, services.InfoStore{}, fmt.Errorf("SEARCH_FIELDS: %w", err)
	}
	svc.SetFieldPencarian(fields)
	return svc, selector, info, nil
}

func runServer() error {
	cfg := config.LoadConfig()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	var pub messaging.PublisherInterface = messaging.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := messaging.NewPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ tidak tersedia, event tidak dipublish")
		} else {
			pub = p
		}
	}
	defer pub.Close()

	svc, selector, info, err := bootstrap(cfg, logger, hub, pub)
	if err != nil {
		return err
	}

	arsip, err := objectstore.NewMinio(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("arsip backup dinonaktifkan")
	} else if arsip != nil {
		svc.SetArsip(arsip)
	}

	if n, err := svc.Load(ctx); err != nil {
		// dashboard tetap jalan, petugas bisa muat ulang manual
		logger.Error().Err(err).Msg("gagal memuat data awal")
	} else {
		logger.Info().Int("jumlah", n).Str("store", info.Jenis).Msg("data awal dimuat")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middlewares.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	routes.Init(e, routes.Deps{
		Cfg:      cfg,
		Service:  svc,
		Selector: selector,
		Aktif:    info,
		Hub:      hub,
		Log:      logger,
	})

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server berjalan")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server berhenti")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("mematikan server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
