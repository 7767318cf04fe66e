package constants

// JobStatus is the canonical status for rows in generation_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued     JobStatus = "QUEUED"     // accepted, not yet started
	JobStatusProcessing JobStatus = "PROCESSING" // contracts being generated
	JobStatusCompleted  JobStatus = "COMPLETED"  // all contracts attempted, ZIP available
	JobStatusFailed     JobStatus = "FAILED"     // terminal failure before results were produced
)
