package database

import (
	"tidyops/internal/logger"
	"tidyops/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.Cleaner{},
		&models.AvailabilityBlock{},
		&models.CleaningTask{},
		&models.CleaningSchedule{},
		&models.CleaningRoute{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Er("Failed to migrate model", err, "model", model)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_cleaning_tasks_status_completed_at ON cleaning_tasks(status, completed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_cleaning_schedules_due ON cleaning_schedules(is_active, next_execution)",
		"CREATE INDEX IF NOT EXISTS idx_cleaning_tasks_property_date ON cleaning_tasks(property_id, scheduled_date)",
	}

	for _, index := range indexes {
		if err := db.SQL.Exec(index).Error; err != nil {
			log.Er("Failed to create index", err, "index", index)
			return err
		}
	}

	log.Info("Additional indexes created successfully")
	return nil
}
