package sqlite

import "time"

// TimeFormat is the text encoding of timestamps stored in SQLite
const TimeFormat = time.RFC3339Nano

// SQL Query Constants - Job Records
const (
	SQLSelectJobRecords = `
		SELECT player_id, job_key, active, experience, last_used
		FROM job_records
		WHERE player_id = ?
		ORDER BY job_key
	`

	SQLSelectJobRecord = `
		SELECT player_id, job_key, active, experience, last_used
		FROM job_records
		WHERE player_id = ? AND job_key = ?
	`

	// SQLUpsertJobRecord mirrors the PostgreSQL upsert: experience survives a rejoin
	SQLUpsertJobRecord = `
		INSERT INTO job_records (player_id, job_key, active, experience, last_used, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?)
		ON CONFLICT (player_id, job_key) DO UPDATE
		SET active = excluded.active, last_used = excluded.last_used, updated_at = excluded.updated_at
	`

	SQLUpdateJobRecord = `
		UPDATE job_records
		SET active = ?, experience = ?, last_used = ?, updated_at = ?
		WHERE player_id = ? AND job_key = ?
	`
)

// Error Messages - Job Record Operations
const (
	ErrMsgFailedToQueryJobRecords   = "failed to query job records"
	ErrMsgFailedToScanJobRecord     = "failed to scan job record"
	ErrMsgFailedToGetJobRecord      = "failed to get job record"
	ErrMsgFailedToCreateJobRecord   = "failed to create job record"
	ErrMsgFailedToUpdateJobRecord   = "failed to update job record"
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgRowIterationError         = "row iteration error"
)
