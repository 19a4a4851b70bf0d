package store

import (
	"context"
	"fmt"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Store owns the database handle and the repositories built on it.
type Store struct {
	db  *gorm.DB
	log *logger.Logger

	Users           UserRepo
	Profiles        ProfileRepo
	Stacks          StackRepo
	Recommendations RecommendationRepo
}

// Open connects to postgres or sqlite depending on driver.
func Open(driver, dsn string, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s (supported: postgres, sqlite)", driver)
	}

	log.Info("Connecting to database...", "driver", driver)
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("Failed to connect to database: %w", err)
	}

	if driver == "postgres" || driver == "postgresql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return New(db, log), nil
}

// New wraps an existing handle.
func New(db *gorm.DB, log *logger.Logger) *Store {
	storeLog := log.With("service", "Store")
	return &Store{
		db:              db,
		log:             storeLog,
		Users:           NewUserRepo(db, storeLog),
		Profiles:        NewProfileRepo(db, storeLog),
		Stacks:          NewStackRepo(db, storeLog),
		Recommendations: NewRecommendationRepo(db, storeLog),
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) AutoMigrate() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&models.User{},
		&models.BusinessProfile{},
		&models.AiStack{},
		&models.AiRecommendation{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

// Transaction runs fn atomically. Repos called inside fn must be given tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
