package ingest

import (
	"time"
)

// Mode selects how a run reconciles extracted records with stored articles
type Mode string

const (
	// ModeReplace clears every article and note before recreating articles
	ModeReplace Mode = "replace"
	// ModeReconcile keys records by link and updates articles in place
	ModeReconcile Mode = "reconcile"
)

// ParseMode maps a config value onto a Mode, defaulting to replace
func ParseMode(s string) Mode {
	if Mode(s) == ModeReconcile {
		return ModeReconcile
	}
	return ModeReplace
}

// Stage names the run-level step that failed
type Stage string

const (
	StageNone  Stage = ""
	StageClear Stage = "clear"
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
	StageLoad  Stage = "load"
)

// RecordStatus is the outcome of one candidate record
type RecordStatus string

const (
	StatusCreated RecordStatus = "created"
	StatusUpdated RecordStatus = "updated"
	StatusFailed  RecordStatus = "failed"
)

// RecordResult tracks the outcome of processing each candidate
type RecordResult struct {
	Index         int          `json:"index"`
	Link          string       `json:"link,omitempty"`
	Status        RecordStatus `json:"status"`
	ArticleID     string       `json:"article_id,omitempty"`
	Error         string       `json:"error,omitempty"`
	MissingFields []string     `json:"missing_fields,omitempty"`
}

// ClearStats counts what the replace step removed
type ClearStats struct {
	Articles int `json:"articles"`
	Notes    int `json:"notes"`
}

// Report is the outcome of one ingestion run. Succeeded covers the run-level
// stages only; per-record failures are counted in Failed.
type Report struct {
	RunID      string    `json:"run_id"`
	SourceURL  string    `json:"source_url"`
	Mode       Mode      `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Succeeded bool   `json:"succeeded"`
	Stage     Stage  `json:"failed_stage,omitempty"`
	Error     string `json:"error,omitempty"`

	Cleared        ClearStats     `json:"cleared"`
	CandidatesSeen int            `json:"candidates_seen"`
	Created        int            `json:"created"`
	Updated        int            `json:"updated"`
	Removed        int            `json:"removed"`
	Failed         int            `json:"failed"`
	FieldMisses    int            `json:"field_misses"`
	Records        []RecordResult `json:"records"`
	Warnings       []string       `json:"warnings,omitempty"`
}

func (r *Report) fail(stage Stage, err error) {
	r.Succeeded = false
	r.Stage = stage
	r.Error = err.Error()
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Report) record(res RecordResult) {
	switch res.Status {
	case StatusCreated:
		r.Created++
	case StatusUpdated:
		r.Updated++
	case StatusFailed:
		r.Failed++
	}
	r.Records = append(r.Records, res)
}
