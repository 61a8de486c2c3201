package domain

// SubmissionStatus is the terminal state reported by the submission pipeline.
type SubmissionStatus string

const (
	// SubmissionSuccess means input and computed results were both persisted.
	SubmissionSuccess SubmissionStatus = "SUCCESS"
	// SubmissionSavedWithoutResults means the computation call failed but the
	// sanitized input was persisted as a draft with empty results.
	SubmissionSavedWithoutResults SubmissionStatus = "SAVED_WITHOUT_RESULTS"
)

// Report is the per-user, per-year container submissions belong to. Once
// Locked is set the reporting period is frozen and every pipeline call
// against it is rejected before any side effect.
type Report struct {
	ReportID  string `json:"reportID" db:"report_id"`
	CompanyID string `json:"companyID" db:"company_id"`
	UserID    string `json:"userID" db:"user_id"`
	Year      int    `json:"year" db:"year"`
	Locked    bool   `json:"locked" db:"locked"`
	AuditFields
}

// SubmissionRecord holds the last-saved input rows and result rows for one
// (report, source) pair. It is a pure upsert target: repeating an identical
// save produces the identical persisted state, and no history is kept.
type SubmissionRecord struct {
	ReportID    string           `json:"reportID" db:"report_id"`
	SourceKey   string           `json:"sourceKey" db:"source_key"`
	InputRows   []Row            `json:"inputRows" db:"input_rows"`
	ResultRows  []ResultRow      `json:"resultRows" db:"result_rows"`
	ContentHash string           `json:"contentHash" db:"content_hash"`
	Status      SubmissionStatus `json:"status" db:"status"`
	AuditFields
}
