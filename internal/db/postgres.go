package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/kodywagner/prepflow-backend/internal/logger"
	"github.com/kodywagner/prepflow-backend/internal/types"
	"github.com/kodywagner/prepflow-backend/internal/utils"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewService opens the configured database. DB_DRIVER=sqlite runs the
// whole backend on a local file (or :memory:) for development; anything
// else is postgres.
func NewService(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", logg))
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		gdb *gorm.DB
		err error
	)
	if driver == "sqlite" {
		path := utils.GetEnv("SQLITE_PATH", "prepflow.db", logg)
		gdb, err = gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", path, err)
		}
		return &Service{db: gdb, log: serviceLog}, nil
	}

	host := utils.GetEnv("POSTGRES_HOST", "localhost", logg)
	port := utils.GetEnv("POSTGRES_PORT", "5432", logg)
	user := utils.GetEnv("POSTGRES_USER", "postgres", logg)
	password := utils.GetEnv("POSTGRES_PASSWORD", "", logg)
	name := utils.GetEnv("POSTGRES_NAME", "prepflow", logg)

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, name,
	)

	gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},

		// Plans + generated schedules
		&types.StudyPlan{},
		&types.DaySchedule{},
		&types.WeekSchedule{},

		// Audit
		&types.AICallLog{},
	)
}
