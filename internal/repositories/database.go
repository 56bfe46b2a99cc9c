package repositories

import (
	"fmt"
	"os"

	"questboard/backend/internal/database"
	"questboard/backend/internal/models"

	"gorm.io/gorm"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "questboard"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Connect opens the pooled connection described by the config.
func Connect(cfg *DatabaseConfig, pool *database.PoolConfig) (*gorm.DB, error) {
	if pool == nil {
		pool = database.DefaultPoolConfig()
	}
	pool.DSN = cfg.DSN()

	dbPool, err := database.NewDatabasePool(pool)
	if err != nil {
		return nil, err
	}

	return dbPool.DB, nil
}

// AutoMigrate creates or updates every table the application owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Assignment{},
		&models.GeneratedTask{},
		&models.Notification{},
		&models.Message{},
		&models.Token{},
		&models.CatalogEntry{},
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
