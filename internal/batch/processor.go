// Package batch orchestrates petition generation across many contracts:
// worker-pool fan-out, per-contract results, job bookkeeping, output
// packaging and the pendências report.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gondimadv/arbitral/constants"
	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/docgen"
	"github.com/gondimadv/arbitral/internal/entity"
	"github.com/gondimadv/arbitral/internal/extract"
	"github.com/gondimadv/arbitral/internal/format"
	"github.com/gondimadv/arbitral/internal/office"
	"github.com/gondimadv/arbitral/internal/repository"
)

// JobIDLength keeps job ids short enough for directory names while still
// collision-safe for this volume.
const JobIDLength = 12

// Processor runs generation jobs. One Processor serves all requests; each
// job gets its own output directory.
type Processor struct {
	jobs       *repository.JobRepository
	images     docgen.ImageFinder
	office     office.Config
	outputsDir string
	logger     *slog.Logger

	workers    int
	zipOutputs bool
	filePrefix string
}

type Option func(*Processor)

func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithZipOutputs(enabled bool) Option {
	return func(p *Processor) {
		p.zipOutputs = enabled
	}
}

func WithFilePrefix(prefix string) Option {
	return func(p *Processor) {
		if prefix != "" {
			p.filePrefix = prefix
		}
	}
}

func NewProcessor(jobs *repository.JobRepository, images docgen.ImageFinder, cfg office.Config, outputsDir string, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		jobs:       jobs,
		images:     images,
		office:     cfg,
		outputsDir: outputsDir,
		logger:     logger,
		workers:    4,
		zipOutputs: true,
		filePrefix: "INICIAL_ARBITRAL_",
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// NewJobID returns a fresh 12-character job identifier.
func NewJobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:JobIDLength]
}

// Process generates petitions for the given contract numbers, or for
// every contract in the spreadsheet when numbers is empty. One failed
// contract never aborts its siblings. The returned job is already
// persisted in its final state.
func (p *Processor) Process(ctx context.Context, e *extract.Extractor, templatePath string, numbers []string) (*entity.GenerationJob, error) {
	if len(numbers) == 0 {
		numbers = e.ContractNumbers()
	}

	job := &entity.GenerationJob{
		ID:        NewJobID(),
		Status:    constants.JobStatusProcessing,
		Total:     len(numbers),
		CreatedAt: time.Now(),
	}
	if err := p.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	jobDir := filepath.Join(p.outputsDir, job.ID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return p.fail(ctx, job, common.WrapError(err, "create job directory"))
	}

	gen := docgen.NewGenerator(templatePath, p.images, p.office, p.logger)
	results := make([]entity.ContractResult, len(numbers))

	workers := p.workers
	if workers > len(numbers) {
		workers = len(numbers)
	}
	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				results[i] = p.processOne(e, gen, jobDir, numbers[i])
			}
		}()
	}
	for i := range numbers {
		idx <- i
	}
	close(idx)
	wg.Wait()

	job.Results = results
	job.Processed = len(results)
	for _, r := range results {
		if r.Success {
			job.Succeeded++
		} else {
			job.Failed++
		}
	}

	if p.zipOutputs {
		zipPath, err := ZipOutputs(jobDir, job.ID)
		if err != nil {
			return p.fail(ctx, job, err)
		}
		job.DownloadPath = zipPath
		job.DownloadURL = entity.DownloadEndpoint(job.ID)
	}

	now := time.Now()
	job.Status = constants.JobStatusCompleted
	job.CompletedAt = &now
	job.Message = fmt.Sprintf("Processamento concluído: %d sucessos, %d falhas", job.Succeeded, job.Failed)
	if err := p.jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	p.logger.Info("batch.completed",
		"job_id", job.ID,
		"total", job.Total,
		"succeeded", job.Succeeded,
		"failed", job.Failed,
	)
	return job, nil
}

func (p *Processor) processOne(e *extract.Extractor, gen *docgen.Generator, jobDir, number string) entity.ContractResult {
	result := entity.ContractResult{ContractNumber: number}

	c, ok := e.Contract(number)
	if !ok {
		result.Message = "Contrato não encontrado"
		return result
	}
	result.Details = &entity.ContractInfo{
		Tenants:    len(c.Tenants),
		Landlords:  len(c.Landlords),
		ClaimValue: format.Currency(c.ClaimValue()),
		City:       c.City,
	}

	filename := p.filePrefix + number + ".docx"
	res, err := gen.Generate(c, filepath.Join(jobDir, filename))
	if err != nil {
		result.Message = "Erro: " + err.Error()
		return result
	}
	result.Success = true
	result.OutputFile = filename
	result.Message = res.Message()
	return result
}

func (p *Processor) fail(ctx context.Context, job *entity.GenerationJob, cause error) (*entity.GenerationJob, error) {
	now := time.Now()
	job.Status = constants.JobStatusFailed
	job.CompletedAt = &now
	job.Message = "Erro no processamento: " + cause.Error()
	if err := p.jobs.Update(ctx, job); err != nil {
		p.logger.Error("batch.fail_update", "job_id", job.ID, "error", err)
	}
	return job, cause
}

// DownloadPath returns the job archive location if it exists.
func (p *Processor) DownloadPath(jobID string) (string, error) {
	path := filepath.Join(p.outputsDir, jobID, fmt.Sprintf("contratos_%s.zip", jobID))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("archive for job %s: %w", jobID, common.ErrNotFound)
	}
	return path, nil
}

// Cleanup removes a job's output directory and its database record.
func (p *Processor) Cleanup(ctx context.Context, jobID string) error {
	if err := os.RemoveAll(filepath.Join(p.outputsDir, jobID)); err != nil {
		return common.WrapError(err, "remove job directory")
	}
	return p.jobs.Delete(ctx, jobID)
}
