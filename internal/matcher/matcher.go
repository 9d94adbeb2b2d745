// Package matcher scores channel names against harvested logo names and picks the best logo per channel.
//
// Each channel is scanned independently against every candidate. A candidate becomes the channel's
// match only when its score beats both the channel's best so far and the threshold, so equal scores
// keep the earlier candidate and a score equal to the threshold is never accepted.
// The same logo may be chosen for any number of channels.
package matcher

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/logomatch/internal/models"
	"github.com/desertthunder/logomatch/internal/shared"
)

// ErrInvalidThreshold is returned when the threshold lies outside [0, 1].
var ErrInvalidThreshold = fmt.Errorf("%w: threshold must be between 0 and 1", shared.ErrInvalidConfig)

// Scorer compares a channel name with a candidate name and returns a score in [0, 1].
type Scorer func(channel, candidate string) float64

// Engine selects logos for channels.
type Engine struct {
	logger *log.Logger
	score  Scorer
}

// Option configures an [Engine].
type Option func(*Engine)

// WithScorer replaces [Similarity] as the scoring function.
func WithScorer(s Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.score = s
		}
	}
}

// NewEngine creates an [Engine] that logs through logger.
func NewEngine(logger *log.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	e := &Engine{logger: logger, score: Similarity}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match returns the best candidate above threshold for every channel that has one.
func (e *Engine) Match(candidates []models.Candidate, channels []string, threshold float64) (*models.MatchSet, error) {
	return e.MatchContext(context.Background(), candidates, channels, threshold)
}

// MatchContext is [Engine.Match] with cancellation checked before each channel.
func (e *Engine) MatchContext(ctx context.Context, candidates []models.Candidate, channels []string, threshold float64) (*models.MatchSet, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	e.logger.Debug("matching logos", "channels", len(channels), "candidates", len(candidates), "threshold", threshold)

	best := make(map[string]float64)
	set := models.NewMatchSet()

	for _, channel := range channels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, c := range candidates {
			score := e.score(channel, c.Name)
			if score > best[channel] && score > threshold {
				best[channel] = score
				set.Set(models.Match{ChannelName: channel, Reference: c.Reference, Score: score})
				e.logger.Debug("new best logo", "channel", channel, "logo", c.Name, "score", score)
			}
		}
	}

	for channel, m := range set.All() {
		e.logger.Debug("matched", "channel", channel, "reference", m.Reference, "score", m.Score)
	}

	return set, nil
}

// ValidateThreshold returns [ErrInvalidThreshold] when threshold lies outside [0, 1].
func ValidateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return fmt.Errorf("%w, got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// Unmatched returns the distinct channel names absent from set, in channel order.
func Unmatched(channels []string, set *models.MatchSet) []string {
	seen := make(map[string]bool, len(channels))
	var out []string
	for _, channel := range channels {
		if seen[channel] {
			continue
		}
		seen[channel] = true
		if _, ok := set.Get(channel); !ok {
			out = append(out, channel)
		}
	}
	return out
}
