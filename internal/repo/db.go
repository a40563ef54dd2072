// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the category catalog seed.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/Amruta907/smart-grievance-system/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
// When trace is true, GORM query spans are exported through the global
// OpenTelemetry tracer provider.
func OpenSQLite(path string, trace bool) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if trace {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for all persisted models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Account{},
		&domain.Category{},
		&domain.Ticket{},
		&domain.ConversationSession{},
		&domain.ProcessedUpdate{},
	)
}

// DefaultCategories is the grievance catalog seeded on first start. IDs are
// stable: conversations reference categories by id, so reordering must happen
// through SortOrder, never by renumbering.
var DefaultCategories = []domain.Category{
	{ID: 1, Name: "Roads & Footpaths", SortOrder: 1},
	{ID: 2, Name: "Water Supply", SortOrder: 2},
	{ID: 3, Name: "Waste Management", SortOrder: 3},
	{ID: 4, Name: "Streetlights & Electricity", SortOrder: 4},
	{ID: 5, Name: "Drainage & Sewage", SortOrder: 5},
	{ID: 6, Name: "Other", SortOrder: 6},
}

// SeedCategories inserts the default catalog, leaving existing rows untouched
// so operator edits survive restarts.
func SeedCategories(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&DefaultCategories).Error
}
