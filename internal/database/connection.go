// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/kicks-catalog/internal/config"
	"github.com/javajoker/kicks-catalog/internal/models"
	"github.com/javajoker/kicks-catalog/internal/utils"
)

const generatedPasswordLength = 16

// Tables that publish a NOTIFY on every write.
var notifyingTables = []string{"brands", "products", "settings"}

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("host", cfg.Host).Info("Database connection established")
	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	default:
		return logger.Info
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
		return
	}
	logrus.Info("Database connection closed")
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.ProductRow{},
		&models.BrandRow{},
		&models.Settings{},
		&models.AdminUser{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := installChangeTriggers(db); err != nil {
			return fmt.Errorf("failed to install change triggers: %w", err)
		}
	}

	logrus.Info("Database migrations completed")
	return nil
}

// installChangeTriggers makes every write on a watched table publish the
// operation name on "<table>_changes".
func installChangeTriggers(db *gorm.DB) error {
	statements := []string{`
CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify(TG_TABLE_NAME || '_changes', TG_OP);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`}

	for _, table := range notifyingTables {
		statements = append(statements,
			fmt.Sprintf("DROP TRIGGER IF EXISTS %s_notify_change ON %s", table, table),
			fmt.Sprintf(
				"CREATE TRIGGER %s_notify_change AFTER INSERT OR UPDATE OR DELETE ON %s "+
					"FOR EACH STATEMENT EXECUTE FUNCTION notify_table_change()",
				table, table,
			),
		)
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedInitialData creates the admin account and the settings row when they
// are missing. Existing data is never touched.
func SeedInitialData(db *gorm.DB, cfg config.AuthConfig) error {
	logrus.Info("Seeding initial data...")

	return WithTransaction(db, func(tx *gorm.DB) error {
		var admin models.AdminUser
		err := tx.Where("email = ?", cfg.AdminEmail).First(&admin).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := seedAdmin(tx, cfg); err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("failed to look up admin user: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Settings{}).Where("id = ?", models.SettingsRowID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up settings: %w", err)
		}
		if count > 0 {
			return nil
		}

		raw, err := models.EncodeSectionOrder(models.DefaultSectionOrder())
		if err != nil {
			return fmt.Errorf("failed to encode section order: %w", err)
		}
		if err := tx.Create(&models.Settings{ID: models.SettingsRowID, SectionOrder: raw}).Error; err != nil {
			return fmt.Errorf("failed to create settings: %w", err)
		}
		logrus.Info("Default section order stored")
		return nil
	})
}

func seedAdmin(tx *gorm.DB, cfg config.AuthConfig) error {
	password := cfg.AdminInitialPassword
	generated := password == ""
	if generated {
		var err error
		if password, err = utils.GenerateRandomString(generatedPasswordLength); err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
	}

	admin := &models.AdminUser{Email: cfg.AdminEmail}
	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if err := tx.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	entry := logrus.WithField("email", cfg.AdminEmail)
	if generated {
		entry = entry.WithField("password", password)
	}
	entry.Warn("Admin user created, change the password after the first sign-in")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
