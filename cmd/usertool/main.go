package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	db := dbpkg.NewDB(cfg, log)

	t := &tool{
		users: infraRepo.NewUserGormRepository(db),
		tx:    dbpkg.NewTransactor(db),
		audit: audit.New(db, log, nil),
	}

	if err := newRootCmd(t).Execute(); err != nil {
		log.Debug("usertool failed", zap.Error(err))
		os.Exit(1)
	}
}
