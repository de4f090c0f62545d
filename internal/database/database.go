package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofrs/flock"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// pure-Go driver registered as "sqlite"
	_ "modernc.org/sqlite"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Warn),
		PrepareStmt: false,
	}
}

// Connect opens the remote store. Postgres URLs go through pgx with the
// simple protocol (Supabase poolers reject prepared statements); anything
// else is treated as a SQLite DSN, which is handy for local development.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), gormConfig())
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		return db, nil
	}

	log.Println("Using SQLite as remote store:", dsn)
	return OpenLocal(dsn)
}

// OpenLocal opens the on-disk SQLite file that backs the local store.
func OpenLocal(path string) (*gorm.DB, error) {
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        path,
		}),
		gormConfig(),
	)
}

// Migrate creates or updates the tables of the given models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	for _, model := range models {
		if !db.Migrator().HasTable(model) {
			if err := db.Migrator().CreateTable(model); err != nil {
				return err
			}
			log.Printf("Created table for %T", model)
			continue
		}
		if err := db.Migrator().AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// ErrLocalStoreLocked is returned when another process holds the local store.
var ErrLocalStoreLocked = errors.New("local store is used by another process")

// LockLocal takes an exclusive lock next to the local store file. The
// leads blob is rewritten as a whole, so two processes sharing the file
// would lose writes. In-memory DSNs need no lock and get a nil lock.
func LockLocal(path string) (*flock.Flock, error) {
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return nil, nil
	}
	lock := flock.New(strings.TrimPrefix(path, "file:") + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock local store: %w", err)
	}
	if !ok {
		return nil, ErrLocalStoreLocked
	}
	return lock, nil
}
