package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createMerchantTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE merchants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		city TEXT NOT NULL,
		district TEXT,
		address TEXT,
		contact_name TEXT NOT NULL,
		contact_phone TEXT NOT NULL,
		contact_email TEXT,
		created_by TEXT NOT NULL,
		assigned_rep_id TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createPipelineTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE pipelines (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL UNIQUE,
		current_stage TEXT NOT NULL DEFAULT 'PENDING_FIRST_VISIT',
		next_action_description TEXT,
		next_action_date DATETIME,
		last_updated_by TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE stage_history (
		id TEXT PRIMARY KEY,
		pipeline_id TEXT NOT NULL,
		merchant_id TEXT NOT NULL,
		from_stage TEXT NOT NULL,
		to_stage TEXT NOT NULL,
		changed_by TEXT NOT NULL,
		note TEXT,
		transitioned_at DATETIME NOT NULL
	);`)
}

func createOnboardingTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE onboardings (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL UNIQUE,
		survey_filled BOOLEAN NOT NULL DEFAULT 0,
		offers_added BOOLEAN NOT NULL DEFAULT 0,
		branches_covered BOOLEAN NOT NULL DEFAULT 0,
		assets_complete BOOLEAN NOT NULL DEFAULT 0,
		completion_percentage REAL NOT NULL DEFAULT 0,
		qa_approved BOOLEAN,
		status TEXT NOT NULL DEFAULT 'IN_PROGRESS',
		live_date DATETIME,
		notes TEXT,
		last_updated_by TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPayoutTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payouts (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount REAL NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_by TEXT NOT NULL,
		created_at DATETIME,
		UNIQUE (merchant_id, recipient_id, type)
	);`)
}

func createActivityTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE activities (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		note TEXT,
		occurred_at DATETIME NOT NULL,
		created_at DATETIME
	);`)
}
