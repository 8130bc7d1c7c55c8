package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"Mansoor88-6/time-tracking-backend/internal/client"
	"Mansoor88-6/time-tracking-backend/internal/database"
	"Mansoor88-6/time-tracking-backend/internal/handler"
	"Mansoor88-6/time-tracking-backend/internal/router"
	"Mansoor88-6/time-tracking-backend/internal/service"
	"Mansoor88-6/time-tracking-backend/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		log.Info("Starting time-tracking backend",
			zap.String("env", cfg.Env),
			zap.String("config_path", configPath),
		)

		// Initialize database
		db, err := database.New(cfg.StoragePath, log.Logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database", zap.Error(err))
			}
		}()
		uow := database.NewUnitOfWork(db.DB)

		photos, err := storage.NewPhotoStore(cfg.Photos.Dir)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var extractor service.TextExtractor
		if cfg.OCR.Enabled {
			ocrClient := client.NewOCRClient(cfg.OCR.BaseURL, cfg.OCR.Timeout, log.Logger)
			if err := ocrClient.HealthCheck(ctx); err != nil {
				log.Warn("OCR service is not reachable", zap.String("base_url", cfg.OCR.BaseURL), zap.Error(err))
			}
			extractor = ocrClient
		} else {
			log.Info("OCR disabled in configuration, uploads are stored without suggestions")
		}

		entryService := service.NewTimeEntryService(db, uow, photos, log.Logger)
		photoService := service.NewPhotoService(photos, extractor, log.Logger)
		targetService := service.NewMonthlyTargetService(db, uow, log.Logger)

		srv := &http.Server{
			Addr: cfg.HTTPServer.Address,
			Handler: router.New(
				handler.NewTimeEntryHandler(entryService, photoService, cfg.Photos.MaxUploadMB<<20, log.Logger),
				handler.NewMonthlyTargetHandler(targetService, log.Logger),
				handler.NewAdminHandler(entryService, cfg.Admin.UserIDs, log.Logger),
				cfg.HTTPServer.AllowedOrigins,
				log.Logger,
			),
			ReadTimeout:  cfg.HTTPServer.ReadTimeout,
			WriteTimeout: cfg.HTTPServer.WriteTimeout,
			IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info("HTTP server listening", zap.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("Shutting down HTTP server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			log.Error("HTTP server stopped with error", zap.Error(err))
			return err
		}
		log.Info("Time-tracking backend stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
