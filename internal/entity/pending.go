package entity

// PendingField records one pendência: a mandatory data point missing from the
// source row, or a missing clause image. Produced transiently by the checker
// and aggregated into the batch report; never persisted by the core.
type PendingField struct {
	ContractNumber string `json:"contrato"`
	FieldKey       string `json:"campo"`
	Label          string `json:"descricao"`
	Note           string `json:"observacao"`
	SourceFile     string `json:"arquivo,omitempty"`
}
