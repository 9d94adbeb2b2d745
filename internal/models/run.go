package models

import (
	"fmt"
	"time"
)

// Run is a persisted record of one matching run.
type Run struct {
	id             string
	sequence       int
	listingURL     string
	playlistPath   string
	threshold      float64
	candidateCount int
	channelCount   int
	dryRun         bool
	matches        []Match
	createdAt      time.Time
	updatedAt      time.Time
}

// RunParams holds the values a [Run] is created from.
type RunParams struct {
	ListingURL     string
	PlaylistPath   string
	Threshold      float64
	CandidateCount int
	ChannelCount   int
	DryRun         bool
	Matches        []Match
}

// NewRun creates a [Run] with creation timestamps set to now.
func NewRun(sequence int, p RunParams) *Run {
	now := time.Now()
	return &Run{
		sequence:       sequence,
		listingURL:     p.ListingURL,
		playlistPath:   p.PlaylistPath,
		threshold:      p.Threshold,
		candidateCount: p.CandidateCount,
		channelCount:   p.ChannelCount,
		dryRun:         p.DryRun,
		matches:        append([]Match(nil), p.Matches...),
		createdAt:      now,
		updatedAt:      now,
	}
}

func (r *Run) ID() string           { return r.id }
func (r *Run) Sequence() int        { return r.sequence }
func (r *Run) ListingURL() string   { return r.listingURL }
func (r *Run) PlaylistPath() string { return r.playlistPath }
func (r *Run) Threshold() float64   { return r.threshold }
func (r *Run) CandidateCount() int  { return r.candidateCount }
func (r *Run) ChannelCount() int    { return r.channelCount }
func (r *Run) MatchedCount() int    { return len(r.matches) }
func (r *Run) DryRun() bool         { return r.dryRun }
func (r *Run) Matches() []Match     { return r.matches }
func (r *Run) CreatedAt() time.Time { return r.createdAt }
func (r *Run) UpdatedAt() time.Time { return r.updatedAt }

func (r *Run) SetID(id string)          { r.id = id }
func (r *Run) SetSequence(seq int)      { r.sequence = seq }
func (r *Run) SetMatches(m []Match)     { r.matches = m }
func (r *Run) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time) { r.updatedAt = t }

// Validate checks the run's required fields.
func (r *Run) Validate() error {
	if r.listingURL == "" {
		return fmt.Errorf("listing URL is required")
	}
	if r.playlistPath == "" {
		return fmt.Errorf("playlist path is required")
	}
	if r.threshold < 0 || r.threshold > 1 {
		return fmt.Errorf("threshold %v outside [0, 1]", r.threshold)
	}
	if r.candidateCount < 0 || r.channelCount < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	return nil
}
