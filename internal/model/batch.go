package model

import "time"

// ImportBatch records one run of the import command.
type ImportBatch struct {
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Total      int        `json:"total"`
	Failed     int        `json:"failed"`
}

// Finished reports whether the batch ran to completion.
func (b *ImportBatch) Finished() bool {
	return b.FinishedAt != nil
}
