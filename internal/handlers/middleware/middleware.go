package middleware

import (
	"tidyops/config"
	"tidyops/internal/database"
	"tidyops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB          database.DB
	cleanerRepo repositories.CleanerRepository
	Config      config.Config
	log         logger.Logger
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:          db,
		cleanerRepo: repos.Cleaner,
		Config:      config,
		log:         log,
	}
}
