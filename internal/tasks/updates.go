package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchListing Phase = iota
	HarvestCandidates
	LoadPlaylist
	MatchChannels
	VerifyLogos
	AnnotatePlaylist
	SavePlaylist
	RecordHistory
)

func (p Phase) String() string {
	switch p {
	case FetchListing:
		return "fetch_listing"
	case HarvestCandidates:
		return "harvest_candidates"
	case LoadPlaylist:
		return "load_playlist"
	case MatchChannels:
		return "match_channels"
	case VerifyLogos:
		return "verify_logos"
	case AnnotatePlaylist:
		return "annotate_playlist"
	case SavePlaylist:
		return "save_playlist"
	case RecordHistory:
		return "record_history"
	default:
		return ""
	}
}

func fetchListingUpdate(url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchListing,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching logos from %s...", url),
	}
}

func harvestUpdate(count int) ProgressUpdate {
	if count == 0 {
		return ProgressUpdate{
			Phase:   HarvestCandidates,
			Step:    0,
			Total:   1,
			Message: "Harvesting logo names...",
		}
	}
	return ProgressUpdate{
		Phase:   HarvestCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d logos", count),
		Data:    count,
	}
}

func loadPlaylistUpdate(path string, channels int) ProgressUpdate {
	if channels == 0 {
		return ProgressUpdate{
			Phase:   LoadPlaylist,
			Step:    0,
			Total:   1,
			Message: fmt.Sprintf("Loading m3u file %s...", path),
		}
	}
	return ProgressUpdate{
		Phase:   LoadPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d channels", channels),
		Data:    channels,
	}
}

func matchChannelsUpdate(channels, candidates int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchChannels,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Matching %d channels against %d logos...", channels, candidates),
	}
}

func verifyLogosUpdate(matches int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   VerifyLogos,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Verifying %d matched logos...", matches),
	}
}

func annotateUpdate(matches int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnnotatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Replacing %d logos...", matches),
	}
}

func savePlaylistUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SavePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saving result to %s...", path),
	}
}

func recordHistoryUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recording run %s...", id),
		Data:    id,
	}
}
