package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"cwms_shell/internal/models"
)

// InitDB initializes the database connection with connection pooling
func InitDB(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Database connection established")
	return db, nil
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")

	err := db.AutoMigrate(
		&models.PageVisit{},
		&models.ScheduledTask{},
		&models.ScheduledTaskHistory{},
	)
	if err != nil {
		return fmt.Errorf("migrating: %w", err)
	}

	log.Info("Database migrations completed")
	return nil
}

// AddPageVisits adds pending counters onto the daily totals, creating rows
// as needed.
func AddPageVisits(db *gorm.DB, visits []PendingVisit) error {
	if len(visits) == 0 {
		return nil
	}
	return upsertPageVisits(db, visits).Error
}

func upsertPageVisits(db *gorm.DB, visits []PendingVisit) *gorm.DB {
	rows := make([]models.PageVisit, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, models.PageVisit{
			Deployment: v.Key.Deployment,
			Page:       string(v.Key.Page),
			Day:        v.Key.Day,
			Count:      v.Count,
		})
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "deployment"}, {Name: "page"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("page_visits.count + excluded.count"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&rows)
}

// PageVisitStore saves pending visit counters through gorm.
type PageVisitStore struct {
	db *gorm.DB
}

// NewPageVisitStore creates a store over db.
func NewPageVisitStore(db *gorm.DB) *PageVisitStore {
	return &PageVisitStore{db: db}
}

// AddPageVisits implements the visit sink used by the flush task.
func (s *PageVisitStore) AddPageVisits(visits []PendingVisit) error {
	return AddPageVisits(s.db, visits)
}
