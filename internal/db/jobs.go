package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/reelsbot/reels/internal/config"
	"github.com/reelsbot/reels/internal/models"
)

// CreateJob enqueues an assembly job unless the video already has a job that
// is still in flight (pending, running, or awaiting retry). Returns the job
// and true when a new row was inserted.
//
// The NOT EXISTS check alone races under READ COMMITTED: two concurrent
// enqueues can both pass it before either commits. The table carries a
// partial unique index —
//
//	CREATE UNIQUE INDEX assembly_jobs_active_video ON assembly_jobs (video_id)
//	WHERE status IN ('pending', 'running', 'retry');
//
// — so the loser of the race gets a unique violation, which is folded into
// the same "already enqueued" result.
func (db *DB) CreateJob(ctx context.Context, videoID string, sourceType models.SourceType, payload models.JobPayload, maxAttempts int) (*models.AssemblyJob, bool, error) {
	job := &models.AssemblyJob{
		ID:          uuid.New(),
		VideoID:     videoID,
		SourceType:  sourceType,
		Payload:     payload,
		Status:      models.JobStatusPending,
		MaxAttempts: maxAttempts,
	}

	query := `
		INSERT INTO assembly_jobs (
			id, video_id, source_type, payload, status, attempts, max_attempts
		)
		SELECT $1, $2, $3, $4, $5, 0, $6
		WHERE NOT EXISTS (
			SELECT 1 FROM assembly_jobs
			WHERE video_id = $2 AND status IN ('pending', 'running', 'retry')
		)
		RETURNING created_at, updated_at
	`

	err := db.QueryRowContext(
		ctx, query,
		job.ID, job.VideoID, job.SourceType, job.Payload, job.Status, job.MaxAttempts,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err == sql.ErrNoRows || isUniqueViolation(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create assembly job: %w", err)
	}

	return job, true, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// ClaimJob atomically claims the oldest runnable job for this worker. A job
// is runnable when it is pending, when its retry delay has elapsed, or when
// a previous worker's lease has expired. Returns nil when the queue is empty.
func (db *DB) ClaimJob(ctx context.Context, workerID string, lockDuration time.Duration) (*models.AssemblyJob, error) {
	query := `
		UPDATE assembly_jobs
		SET status = 'running',
		    locked_by = $1,
		    locked_at = NOW(),
		    attempts = attempts + 1,
		    updated_at = NOW()
		WHERE id = (
			SELECT id FROM assembly_jobs
			WHERE status = 'pending'
			   OR (status = 'retry' AND next_run_at <= NOW())
			   OR (status = 'running' AND locked_at < NOW() - $2::interval)
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, video_id, source_type, payload, status, attempts,
		          max_attempts, last_error, locked_by, locked_at, next_run_at,
		          created_at, updated_at
	`

	interval := fmt.Sprintf("%d seconds", int(lockDuration.Seconds()))

	job := &models.AssemblyJob{}
	err := db.QueryRowContext(ctx, query, workerID, interval).Scan(
		&job.ID, &job.VideoID, &job.SourceType, &job.Payload, &job.Status,
		&job.Attempts, &job.MaxAttempts, &job.LastError, &job.LockedBy,
		&job.LockedAt, &job.NextRunAt, &job.CreatedAt, &job.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim assembly job: %w", err)
	}

	return job, nil
}

// CompleteJob marks a running job as completed and releases its lease.
func (db *DB) CompleteJob(ctx context.Context, jobID uuid.UUID) error {
	query := `
		UPDATE assembly_jobs
		SET status = 'completed', locked_by = NULL, locked_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.ExecContext(ctx, query, jobID)
	if err != nil {
		return fmt.Errorf("failed to complete assembly job: %w", err)
	}
	return nil
}

// RetryOrFailJob transitions a job after a failed attempt: to retry with a
// linear-backoff next_run_at while attempts remain, otherwise to failed.
// Returns the resulting status.
func (db *DB) RetryOrFailJob(ctx context.Context, job *models.AssemblyJob, jobErr error, policy config.RetryPolicy) (models.JobStatus, error) {
	msg := truncateError(jobErr, 1000)

	if job.Attempts >= job.MaxAttempts {
		query := `
			UPDATE assembly_jobs
			SET status = 'failed', last_error = $1,
			    locked_by = NULL, locked_at = NULL, updated_at = NOW()
			WHERE id = $2
		`
		if _, err := db.ExecContext(ctx, query, msg, job.ID); err != nil {
			return "", fmt.Errorf("failed to mark job failed: %w", err)
		}
		return models.JobStatusFailed, nil
	}

	delay := policy.NextRunDelay(job.Attempts)
	query := `
		UPDATE assembly_jobs
		SET status = 'retry', last_error = $1, next_run_at = NOW() + $2::interval,
		    locked_by = NULL, locked_at = NULL, updated_at = NOW()
		WHERE id = $3
	`
	interval := fmt.Sprintf("%d seconds", int(delay.Seconds()))
	if _, err := db.ExecContext(ctx, query, msg, interval, job.ID); err != nil {
		return "", fmt.Errorf("failed to schedule job retry: %w", err)
	}
	return models.JobStatusRetry, nil
}

// CancelJob marks a job canceled and releases its lease.
func (db *DB) CancelJob(ctx context.Context, jobID uuid.UUID) error {
	query := `
		UPDATE assembly_jobs
		SET status = 'canceled', locked_by = NULL, locked_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.ExecContext(ctx, query, jobID)
	if err != nil {
		return fmt.Errorf("failed to cancel assembly job: %w", err)
	}
	return nil
}

// JobCounts returns the number of jobs per status, for the ops endpoint.
func (db *DB) JobCounts(ctx context.Context) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM assembly_jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count assembly jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan job count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func truncateError(err error, max int) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
