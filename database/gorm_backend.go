package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"qc-registry/config"
	"qc-registry/migration"
	"qc-registry/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend keeps each state entry as one row of state_entries.
type GormBackend struct {
	DB     *gorm.DB
	prefix string
}

// NewGormBackend migrates the state table and wraps db.
func NewGormBackend(db *gorm.DB, prefix string) (*GormBackend, error) {
	if err := migration.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate state table: %w", err)
	}
	return &GormBackend{DB: db, prefix: prefix}, nil
}

func (b *GormBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.StateEntry
	err := b.DB.WithContext(ctx).Where("entry_key = ?", b.prefix+key).Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (b *GormBackend) Put(ctx context.Context, key string, value []byte) error {
	entry := models.StateEntry{
		Key:       b.prefix + key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return b.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (b *GormBackend) Delete(ctx context.Context, key string) error {
	return b.DB.WithContext(ctx).Where("entry_key = ?", b.prefix+key).Delete(&models.StateEntry{}).Error
}

func (b *GormBackend) Close() error {
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormConfig() *gorm.Config {
	return &gorm.Config{SkipDefaultTransaction: true}
}

var dbNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func OpenDatabaseConnection(dbName string) (*gorm.DB, error) {
	dialector, err := getDialector(dbName)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, err
	}
	if config.DBDebug {
		db = db.Debug()
	}
	return db, nil
}

func getDialector(dbName string) (gorm.Dialector, error) {
	switch config.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", config.DBDriver)
	}
}

// EnsureDatabaseExists connects to the server's maintenance database and creates
// dbName when it is missing.
func EnsureDatabaseExists(dbName string) error {
	if !dbNamePattern.MatchString(dbName) {
		return fmt.Errorf("invalid database name %q", dbName)
	}

	var dialector gorm.Dialector
	switch config.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBPort)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort)
		dialector = mysql.Open(dsn)
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=master",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort)
		dialector = sqlserver.Open(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", config.DBDriver)
	}

	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return fmt.Errorf("connect to DB server: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	exists, err := checkDatabaseExists(db, dbName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return db.Exec("CREATE DATABASE " + dbName).Error
}

func checkDatabaseExists(db *gorm.DB, dbName string) (bool, error) {
	var count int64
	var err error
	switch config.DBDriver {
	case "postgres":
		err = db.Raw("SELECT COUNT(1) FROM pg_database WHERE datname = ?", dbName).Scan(&count).Error
	case "mysql":
		err = db.Raw("SELECT COUNT(1) FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?", dbName).Scan(&count).Error
	case "mssql":
		err = db.Raw("SELECT COUNT(1) FROM master.sys.databases WHERE name = ?", dbName).Scan(&count).Error
	default:
		return false, fmt.Errorf("unsupported DB driver")
	}
	return count > 0, err
}
