package entity

import (
	"time"

	"github.com/gondimadv/arbitral/constants"
)

// ContractResult is the outcome of generating one contract's filing.
type ContractResult struct {
	ContractNumber string        `json:"contrato"`
	Success        bool          `json:"sucesso"`
	OutputFile     string        `json:"arquivo,omitempty"`
	Message        string        `json:"mensagem"`
	Details        *ContractInfo `json:"dados,omitempty"`
}

// ContractInfo is the summary reported back for a processed contract.
type ContractInfo struct {
	Tenants    int    `json:"inquilinos"`
	Landlords  int    `json:"proprietarios"`
	ClaimValue string `json:"valor_causa"`
	City       string `json:"cidade"`
}

// GenerationJob tracks one batch generation request across its lifetime.
type GenerationJob struct {
	ID           string              `json:"job_id"`
	Status       constants.JobStatus `json:"status"`
	Total        int                 `json:"total_contratos"`
	Processed    int                 `json:"processados"`
	Succeeded    int                 `json:"sucessos"`
	Failed       int                 `json:"falhas"`
	Results      []ContractResult    `json:"resultados"`
	DownloadPath string              `json:"-"`
	DownloadURL  string              `json:"download_url,omitempty"`
	Message      string              `json:"mensagem"`
	CreatedAt    time.Time           `json:"created_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}

// DownloadEndpoint is the API route serving a job's ZIP archive.
func DownloadEndpoint(jobID string) string {
	return "/api/v1/contracts/download/" + jobID
}
