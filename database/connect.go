package database

import (
	"event_manager/config"
	"event_manager/model"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	p := config.ConfigDefault("DB_PORT", "5432")
	port, err := strconv.ParseUint(p, 10, 32)

	if err != nil {
		zap.L().Fatal("failed to parse database port", zap.String("port", p), zap.Error(err))
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Config("DB_HOST"), port, config.Config("DB_USER"), config.Config("DB_PASSWORD"),
		config.Config("DB_NAME"), config.ConfigDefault("DB_SSLMODE", "disable"))

	logLevel := logger.Warn
	if config.ConfigBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logLevel)})

	if err != nil {
		zap.L().Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := DB.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(config.ConfigInt("DB_MAX_OPEN_CONNS", 25))
		sqlDB.SetMaxIdleConns(config.ConfigInt("DB_MAX_IDLE_CONNS", 5))
		sqlDB.SetConnMaxLifetime(config.ConfigDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute))
	}

	zap.L().Info("connection opened to database")
	if err := Migrate(DB); err != nil {
		zap.L().Fatal("failed to migrate database", zap.Error(err))
	}
	zap.L().Info("database migrated")

	SeedData(DB)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Venue{},
		&model.Event{},
		&model.Order{},
		&model.Ticket{},
	)
}
