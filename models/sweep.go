package models

import "time"

// SweepResult summarizes one reconciliation pass over expired bookings.
type SweepResult struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Scanned    int       `json:"scanned"`  // pending bookings whose deadline had passed at scan time
	Released   int       `json:"released"` // booking/slot pairs actually transitioned
	Skipped    int       `json:"skipped"`  // pairs dropped in-flight (booking left pending between scan and commit)
}

// SweepRecord is the persisted audit entry for one pass.
type SweepRecord struct {
	ID       string        `bson:"id" json:"id"`
	RanAt    time.Time     `bson:"ran_at" json:"ran_at"`
	Duration time.Duration `bson:"duration_ns" json:"duration_ns"`
	Scanned  int           `bson:"scanned" json:"scanned"`
	Released int           `bson:"released" json:"released"`
	Skipped  int           `bson:"skipped" json:"skipped"`
	Error    string        `bson:"error,omitempty" json:"error,omitempty"`
}
