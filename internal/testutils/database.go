package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/model"
	dbPkg "terminal-terrace/academic/pkg/database"
)

// SetupTestDB creates a private in-memory SQLite database
// Every call gets its own database, so tests never see each other's rows
// Automatically migrates all tables before returning the connection
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dbPkg.InitSQLite(&dbPkg.SQLiteConfig{
		ServiceName: "academic-test",
		Name:        uuid.NewString(),
		LogLevel:    "silent",
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

// SetupTestRedis starts an in-process Redis server and returns a client for it
func SetupTestRedis(t *testing.T) (*dbPkg.RedisClient, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	return &dbPkg.RedisClient{Client: client}, server
}
