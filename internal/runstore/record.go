package runstore

// Status is the terminal (or pending) state of one run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusIncomplete Status = "incomplete"
)

// Record tracks the outcome of processing one paper. It is created before the
// turn loop starts and finalized exactly once when the loop reaches a
// terminal state.
type Record struct {
	Paper      string `json:"paper"`
	PaperPath  string `json:"paper_path"`
	RunID      string `json:"run_id,omitempty"`
	Status     Status `json:"status"`
	Score      *int   `json:"score"`
	MaxScore   int    `json:"max_score"`
	PNGCount   int    `json:"png_count"`
	CSVCount   int    `json:"csv_count"`
	Iterations int    `json:"iterations"`
	Error      string `json:"error,omitempty"`
}

// NewRecord returns a pending record for a paper.
func NewRecord(paper, paperPath string, maxScore int) *Record {
	return &Record{
		Paper:     paper,
		PaperPath: paperPath,
		Status:    StatusPending,
		MaxScore:  maxScore,
	}
}

// Finalize sets the terminal status once; later calls are ignored so the
// first observed terminal condition wins.
func (r *Record) Finalize(s Status) {
	if r.Status == StatusPending {
		r.Status = s
	}
}

// Terminal reports whether the record has left the pending state.
func (r *Record) Terminal() bool { return r.Status != StatusPending }

// SetScore records the evaluation score.
func (r *Record) SetScore(score, maxScore int) {
	v := score
	r.Score = &v
	if maxScore > 0 {
		r.MaxScore = maxScore
	}
}
