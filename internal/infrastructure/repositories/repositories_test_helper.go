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
		email TEXT,
		name TEXT,
		password_hash TEXT,
		role TEXT,
		company_name TEXT,
		kyc_status TEXT,
		kyb_status TEXT,
		kyb_status_legacy TEXT,
		kyb_document TEXT,
		kyb_submitted_at DATETIME,
		kyc_submitted_at DATETIME,
		profile_completed BOOLEAN,
		is_email_verified BOOLEAN,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createOrganizationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE organizations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		organization_name TEXT NOT NULL,
		organization_type TEXT,
		registration_number TEXT,
		tax_id TEXT,
		address TEXT,
		country TEXT,
		contact_person TEXT,
		email TEXT NOT NULL,
		phone TEXT,
		website TEXT,
		business_description TEXT,
		documents TEXT,
		kyb_status TEXT NOT NULL,
		rejection_reason TEXT,
		reviewed_by TEXT,
		reviewed_at DATETIME,
		submitted_at DATETIME,
		on_chain_tx_hash TEXT,
		on_chain_stored_at DATETIME,
		on_chain_deleted BOOLEAN,
		on_chain_delete_tx_hash TEXT,
		on_chain_deleted_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPitchTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE pitches (
		id TEXT PRIMARY KEY,
		founder_id TEXT NOT NULL,
		founder_name TEXT,
		founder_email TEXT,
		project_name TEXT NOT NULL,
		sector TEXT,
		funding_goal TEXT,
		status TEXT NOT NULL,
		rejection_reason TEXT,
		ai_review TEXT,
		reviewed_by TEXT,
		reviewed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createChatTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE chat_rooms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		participants TEXT NOT NULL,
		pinned_messages TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE chat_messages (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		sender_name TEXT,
		text TEXT,
		file_url TEXT,
		voice_url TEXT,
		reactions TEXT NOT NULL,
		read_by TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createEmailVerificationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE email_verifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		verified_at DATETIME,
		created_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createProofTaskTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE proof_tasks (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER,
		max_attempts INTEGER,
		store_tx_hash TEXT,
		delete_tx_hash TEXT,
		last_error TEXT,
		run_after DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
