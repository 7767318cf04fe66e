package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gondimadv/arbitral/constants"
	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/entity"
)

const jobSchema = `
CREATE TABLE IF NOT EXISTS generation_job (
	id            TEXT PRIMARY KEY,
	status        TEXT NOT NULL,
	total         INTEGER NOT NULL DEFAULT 0,
	processed     INTEGER NOT NULL DEFAULT 0,
	succeeded     INTEGER NOT NULL DEFAULT 0,
	failed        INTEGER NOT NULL DEFAULT 0,
	download_path TEXT NOT NULL DEFAULT '',
	message       TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL,
	completed_at  TIMESTAMP
);

CREATE TABLE IF NOT EXISTS job_result (
	job_id          TEXT NOT NULL REFERENCES generation_job(id) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	contract_number TEXT NOT NULL,
	success         BOOLEAN NOT NULL,
	output_file     TEXT NOT NULL DEFAULT '',
	message         TEXT NOT NULL DEFAULT '',
	details         TEXT,
	PRIMARY KEY (job_id, position)
);
`

// JobRepository stores generation jobs and their per-contract results.
type JobRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewJobRepository(ctx context.Context, db *sqlx.DB, logger *slog.Logger) (*JobRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.ExecContext(ctx, jobSchema); err != nil {
		return nil, fmt.Errorf("migrate job schema: %w", err)
	}
	return &JobRepository{db: db, logger: logger}, nil
}

type jobRow struct {
	ID           string       `db:"id"`
	Status       string       `db:"status"`
	Total        int          `db:"total"`
	Processed    int          `db:"processed"`
	Succeeded    int          `db:"succeeded"`
	Failed       int          `db:"failed"`
	DownloadPath string       `db:"download_path"`
	Message      string       `db:"message"`
	CreatedAt    time.Time    `db:"created_at"`
	CompletedAt  sql.NullTime `db:"completed_at"`
}

type resultRow struct {
	JobID          string         `db:"job_id"`
	Position       int            `db:"position"`
	ContractNumber string         `db:"contract_number"`
	Success        bool           `db:"success"`
	OutputFile     string         `db:"output_file"`
	Message        string         `db:"message"`
	Details        sql.NullString `db:"details"`
}

// Create inserts a new job record.
func (r *JobRepository) Create(ctx context.Context, job *entity.GenerationJob) error {
	row := toRow(job)
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO generation_job
			(id, status, total, processed, succeeded, failed, download_path, message, created_at, completed_at)
		VALUES
			(:id, :status, :total, :processed, :succeeded, :failed, :download_path, :message, :created_at, :completed_at)`,
		row)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", job.ID, err)
	}
	return r.replaceResults(ctx, job)
}

// Update rewrites the job record and its result rows.
func (r *JobRepository) Update(ctx context.Context, job *entity.GenerationJob) error {
	row := toRow(job)
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE generation_job SET
			status = :status, total = :total, processed = :processed,
			succeeded = :succeeded, failed = :failed,
			download_path = :download_path, message = :message,
			completed_at = :completed_at
		WHERE id = :id`,
		row)
	if err != nil {
		return fmt.Errorf("update job %s: %w", job.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %s: %w", job.ID, common.ErrNotFound)
	}
	return r.replaceResults(ctx, job)
}

func (r *JobRepository) replaceResults(ctx context.Context, job *entity.GenerationJob) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin result tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM job_result WHERE job_id = ?`), job.ID); err != nil {
		return fmt.Errorf("clear results for job %s: %w", job.ID, err)
	}
	for i, cr := range job.Results {
		row := resultRow{
			JobID:          job.ID,
			Position:       i,
			ContractNumber: cr.ContractNumber,
			Success:        cr.Success,
			OutputFile:     cr.OutputFile,
			Message:        cr.Message,
		}
		if cr.Details != nil {
			data, err := json.Marshal(cr.Details)
			if err != nil {
				return fmt.Errorf("encode result details: %w", err)
			}
			row.Details = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO job_result
				(job_id, position, contract_number, success, output_file, message, details)
			VALUES
				(:job_id, :position, :contract_number, :success, :output_file, :message, :details)`,
			row); err != nil {
			return fmt.Errorf("insert result for job %s: %w", job.ID, err)
		}
	}
	return tx.Commit()
}

// Get loads a job with its results.
func (r *JobRepository) Get(ctx context.Context, id string) (*entity.GenerationJob, error) {
	var row jobRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT * FROM generation_job WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load job %s: %w", id, err)
	}

	var results []resultRow
	if err := r.db.SelectContext(ctx, &results,
		r.db.Rebind(`SELECT * FROM job_result WHERE job_id = ? ORDER BY position`), id); err != nil {
		return nil, fmt.Errorf("load results for job %s: %w", id, err)
	}

	job := fromRow(row)
	for _, rr := range results {
		cr := entity.ContractResult{
			ContractNumber: rr.ContractNumber,
			Success:        rr.Success,
			OutputFile:     rr.OutputFile,
			Message:        rr.Message,
		}
		if rr.Details.Valid {
			var info entity.ContractInfo
			if err := json.Unmarshal([]byte(rr.Details.String), &info); err != nil {
				return nil, fmt.Errorf("decode result details: %w", err)
			}
			cr.Details = &info
		}
		job.Results = append(job.Results, cr)
	}
	return job, nil
}

// Delete removes a job and, through the cascade, its results.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM generation_job WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	// Older databases may predate the FK pragma; clear explicitly.
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM job_result WHERE job_id = ?`), id); err != nil {
		return fmt.Errorf("delete results for job %s: %w", id, err)
	}
	r.logger.Info("jobs.deleted", "job_id", id)
	return nil
}

func toRow(job *entity.GenerationJob) jobRow {
	row := jobRow{
		ID:           job.ID,
		Status:       string(job.Status),
		Total:        job.Total,
		Processed:    job.Processed,
		Succeeded:    job.Succeeded,
		Failed:       job.Failed,
		DownloadPath: job.DownloadPath,
		Message:      job.Message,
		CreatedAt:    job.CreatedAt,
	}
	if job.CompletedAt != nil {
		row.CompletedAt = sql.NullTime{Time: *job.CompletedAt, Valid: true}
	}
	return row
}

func fromRow(row jobRow) *entity.GenerationJob {
	job := &entity.GenerationJob{
		ID:           row.ID,
		Status:       constants.JobStatus(row.Status),
		Total:        row.Total,
		Processed:    row.Processed,
		Succeeded:    row.Succeeded,
		Failed:       row.Failed,
		DownloadPath: row.DownloadPath,
		Message:      row.Message,
		CreatedAt:    row.CreatedAt,
	}
	// The URL is derived, not stored: it is fixed by the API layout.
	if row.DownloadPath != "" {
		job.DownloadURL = entity.DownloadEndpoint(row.ID)
	}
	if row.CompletedAt.Valid {
		t := row.CompletedAt.Time
		job.CompletedAt = &t
	}
	return job
}
