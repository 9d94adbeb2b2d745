package models

import "iter"

// Candidate is a logo harvested from a directory listing.
type Candidate struct {
	Name      string `json:"name"`      // Display name with the file extension removed
	Reference string `json:"reference"` // Absolute location of the logo resource
}

// Match is the logo selected for a channel.
type Match struct {
	ChannelName string  `json:"channel"`
	Reference   string  `json:"reference"`
	Score       float64 `json:"score"`
}

// MatchSet maps channel names to their selected [Match].
//
// Iteration follows the order in which channels first received a match.
// The zero value is not usable; create one with [NewMatchSet].
type MatchSet struct {
	order   []string
	matches map[string]Match
}

// NewMatchSet creates an empty [MatchSet].
func NewMatchSet() *MatchSet {
	return &MatchSet{matches: make(map[string]Match)}
}

// Set stores m under its channel name, replacing any previous match for that channel.
func (s *MatchSet) Set(m Match) {
	if _, ok := s.matches[m.ChannelName]; !ok {
		s.order = append(s.order, m.ChannelName)
	}
	s.matches[m.ChannelName] = m
}

// Get returns the match for a channel, if any.
func (s *MatchSet) Get(channel string) (Match, bool) {
	m, ok := s.matches[channel]
	return m, ok
}

// Delete removes the match for a channel.
func (s *MatchSet) Delete(channel string) {
	if _, ok := s.matches[channel]; !ok {
		return
	}
	delete(s.matches, channel)
	for i, name := range s.order {
		if name == channel {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of matched channels.
func (s *MatchSet) Len() int {
	return len(s.order)
}

// All iterates over channel name and match pairs in stable order.
func (s *MatchSet) All() iter.Seq2[string, Match] {
	return func(yield func(string, Match) bool) {
		for _, name := range s.order {
			if !yield(name, s.matches[name]) {
				return
			}
		}
	}
}

// Matches returns a copy of the matches in stable order.
func (s *MatchSet) Matches() []Match {
	out := make([]Match, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.matches[name])
	}
	return out
}
