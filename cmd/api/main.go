package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/campusrecords/catalog/pkg/config"
	"github.com/campusrecords/catalog/pkg/database"
	"github.com/campusrecords/catalog/pkg/migrations"
	"github.com/campusrecords/catalog/pkg/server"
	"github.com/campusrecords/catalog/pkg/version"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()
	log := logger.New()

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err == nil {
		log.Info("loaded .env file")
	}

	log.Info("starting catalog", version.Info())

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	log.Info("database connected", logger.Data{"driver": cfg.DatabaseDriver})

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	srv, err := server.New(cfg, db)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", srv.Addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}
		log.Info("server started", logger.Data{"addr": listener.Addr().String(), "hostname": cfg.Hostname})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
