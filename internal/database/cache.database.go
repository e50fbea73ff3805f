package database

import (
	"fmt"
	"tidyops/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index gives logical separation
// between cache categories.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous cache operations
	GENERAL_CACHE_INDEX = iota

	// CLEANER_CACHE_INDEX (DB 1) - cleaner profiles read on every
	// assignment pass
	CLEANER_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Error("failed to initialize cache database", "reason", "address or port is empty")
	}

	var cacheDB Cache

	var err error
	cacheDB.General, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    GENERAL_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	cacheDB.Cleaner, err = valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    CLEANER_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create cleaner valkey client", err)
	}

	s.Cache = cacheDB

	return nil
}
