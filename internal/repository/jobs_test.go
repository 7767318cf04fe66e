package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gondimadv/arbitral/constants"
	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/entity"
)

func testRepo(t *testing.T) *JobRepository {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "jobs.db"), 0, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewJobRepository(ctx, db, nil)
	if err != nil {
		t.Fatalf("NewJobRepository() error = %v", err)
	}
	return repo
}

func sampleJob() *entity.GenerationJob {
	return &entity.GenerationJob{
		ID:        "ab12cd34ef56",
		Status:    constants.JobStatusQueued,
		Total:     2,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestJobRepository_RoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	job := sampleJob()
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	done := time.Now().UTC().Truncate(time.Second)
	job.Status = constants.JobStatusCompleted
	job.Processed = 2
	job.Succeeded = 1
	job.Failed = 1
	job.DownloadPath = "/tmp/contratos_ab12cd34ef56.zip"
	job.Message = "Processados 2 contratos"
	job.CompletedAt = &done
	job.Results = []entity.ContractResult{
		{
			ContractNumber: "10001",
			Success:        true,
			OutputFile:     "INICIAL_ARBITRAL_10001.docx",
			Message:        "Gerado com 12 substituições + imagem",
			Details:        &entity.ContractInfo{Tenants: 2, Landlords: 1, ClaimValue: "R$12.000,00", City: "Rio de Janeiro"},
		},
		{ContractNumber: "10002", Success: false, Message: "contrato não encontrado"},
	}
	if err := repo.Update(ctx, job); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != constants.JobStatusCompleted || got.Succeeded != 1 || got.Failed != 1 {
		t.Errorf("Get() counters = %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v, expected %v", got.CompletedAt, done)
	}
	if len(got.Results) != 2 {
		t.Fatalf("results = %d, expected 2", len(got.Results))
	}
	if got.Results[0].Details == nil || got.Results[0].Details.Tenants != 2 {
		t.Errorf("result details = %+v", got.Results[0].Details)
	}
	if got.Results[1].Details != nil {
		t.Errorf("failed result should carry no details: %+v", got.Results[1].Details)
	}
	if got.DownloadPath != job.DownloadPath {
		t.Errorf("DownloadPath = %q", got.DownloadPath)
	}
	if want := entity.DownloadEndpoint(job.ID); got.DownloadURL != want {
		t.Errorf("DownloadURL = %q, expected %q", got.DownloadURL, want)
	}
}

func TestJobRepository_NoDownloadNoURL(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	job := sampleJob()
	if err := repo.Create(ctx, job); err != nil {
		t.Fatal(err)
	}
	got, err := repo.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.DownloadURL != "" {
		t.Errorf("DownloadURL = %q for a job without an archive", got.DownloadURL)
	}
}

func TestJobRepository_GetUnknown(t *testing.T) {
	repo := testRepo(t)
	if _, err := repo.Get(context.Background(), "nao-existe"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Get() error = %v, expected ErrNotFound", err)
	}
}

func TestJobRepository_UpdateUnknown(t *testing.T) {
	repo := testRepo(t)
	job := sampleJob()
	if err := repo.Update(context.Background(), job); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Update() error = %v, expected ErrNotFound", err)
	}
}

func TestJobRepository_Delete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	job := sampleJob()
	job.Results = []entity.ContractResult{{ContractNumber: "10001", Success: true}}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, job.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, job.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Get() after delete: error = %v, expected ErrNotFound", err)
	}
	if err := repo.Delete(ctx, job.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("second Delete(): error = %v, expected ErrNotFound", err)
	}
}
