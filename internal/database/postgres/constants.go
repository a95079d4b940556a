package postgres

// SQL Query Constants - Job Records
const (
	// SQLSelectJobRecords lists every record of a player
	SQLSelectJobRecords = `
		SELECT player_id, job_key, active, experience, last_used
		FROM job_records
		WHERE player_id = $1
		ORDER BY job_key
	`

	// SQLSelectJobRecord reads a single record
	SQLSelectJobRecord = `
		SELECT player_id, job_key, active, experience, last_used
		FROM job_records
		WHERE player_id = $1 AND job_key = $2
	`

	// SQLSelectJobRecordForUpdate reads a single record and locks the row until the transaction ends
	SQLSelectJobRecordForUpdate = SQLSelectJobRecord + ` FOR UPDATE`

	// SQLUpsertJobRecord inserts a record, or reactivates it keeping its experience
	SQLUpsertJobRecord = `
		INSERT INTO job_records (player_id, job_key, active, experience, last_used, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, NOW(), NOW())
		ON CONFLICT (player_id, job_key) DO UPDATE
		SET active = EXCLUDED.active, last_used = EXCLUDED.last_used, updated_at = NOW()
		RETURNING player_id, job_key, active, experience, last_used
	`

	// SQLUpdateJobRecord writes back a mutated record
	SQLUpdateJobRecord = `
		UPDATE job_records
		SET active = $3, experience = $4, last_used = $5, updated_at = NOW()
		WHERE player_id = $1 AND job_key = $2
	`
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Job Record Operations
const (
	ErrMsgFailedToQueryJobRecords = "failed to query job records"
	ErrMsgFailedToScanJobRecord   = "failed to scan job record"
	ErrMsgFailedToGetJobRecord    = "failed to get job record"
	ErrMsgFailedToCreateJobRecord = "failed to create job record"
	ErrMsgFailedToUpdateJobRecord = "failed to update job record"
	ErrMsgRowIterationError       = "row iteration error"
)
