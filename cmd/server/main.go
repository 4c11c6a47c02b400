package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apexmine/config"
	"apexmine/internal/database"
	"apexmine/internal/repository"
	"apexmine/internal/router"
	"apexmine/pkg/cloudinary"
	"apexmine/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Server.Env)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	if err := database.SeedTiers(db); err != nil {
		log.WithError(err).Fatal("tier seed failed")
	}
	settingRepo := repository.NewSettingRepository(db)
	if err := settingRepo.SeedDefaults(database.DefaultSettings()); err != nil {
		log.WithError(err).Fatal("settings seed failed")
	}
	if err := database.SeedAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.WithError(err).Fatal("admin seed failed")
	}

	cloud := cloudinary.NoopClient()
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.WithError(err).Fatal("cloudinary init failed")
		}
	} else {
		log.Warn("cloudinary not configured, proof uploads disabled")
	}

	engine, sched := router.Setup(cfg, db, cloud, log)

	ctx, cancel := context.WithCancel(context.Background())
	go sched.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	log.Info("server stopped")
}
