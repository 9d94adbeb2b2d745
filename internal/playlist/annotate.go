package playlist

import (
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/logomatch/internal/models"
)

// AnnotateResult is the outcome of [Annotate].
type AnnotateResult struct {
	Entries []Entry
	Updated int
	Missing []string // Channels with a match but no entry of that name
}

// Annotate writes each match's reference into the logo attribute of the first entry with the same name.
//
// Matches are applied in set order. Names compare exactly, so only the first of several same-named
// entries is updated. entries is not modified.
func Annotate(entries []Entry, matches *models.MatchSet, logger *log.Logger) AnnotateResult {
	out := slices.Clone(entries)
	result := AnnotateResult{Entries: out}

	for channel, m := range matches.All() {
		i := slices.IndexFunc(out, func(e Entry) bool { return e.Name == channel })
		if i < 0 {
			if logger != nil {
				logger.Warn("entry vanished since the channel list was read", "channel", channel)
			}
			result.Missing = append(result.Missing, channel)
			continue
		}

		out[i] = out[i].WithLogo(m.Reference)
		result.Updated++
		if logger != nil {
			logger.Debug("logo replaced", "channel", channel, "logo", m.Reference)
		}
	}

	return result
}
