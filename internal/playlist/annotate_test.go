package playlist

import (
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/logomatch/internal/models"
	tu "github.com/desertthunder/logomatch/internal/testing"
)

func matchSet(matches ...models.Match) *models.MatchSet {
	set := models.NewMatchSet()
	for _, m := range matches {
		set.Set(m)
	}
	return set
}

func TestAnnotate(t *testing.T) {
	logger := tu.DiscardLogger()

	t.Run("sets logo on matched entries", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)
		set := matchSet(
			models.Match{ChannelName: "CNN International", Reference: "http://x/logos/CNN.png", Score: 0.7},
			models.Match{ChannelName: "BBC One HD", Reference: "http://x/logos/BBC%20One.svg", Score: 0.82},
		)

		result := Annotate(p.Entries, set, logger)

		if result.Updated != 2 {
			t.Errorf("expected 2 updates, got %d", result.Updated)
		}
		if len(result.Missing) != 0 {
			t.Errorf("unexpected missing %v", result.Missing)
		}
		if got := result.Entries[1].Logo(); got != "http://x/logos/CNN.png" {
			t.Errorf("unexpected CNN logo %q", got)
		}
		if got := result.Entries[2].Logo(); got != "http://x/logos/BBC%20One.svg" {
			t.Errorf("unexpected BBC logo %q", got)
		}
		if v, _ := result.Entries[2].Attr("tvg-id"); v != "bbc1.uk" {
			t.Errorf("other attributes lost: %+v", result.Entries[2].Attributes)
		}
	})

	t.Run("only first of duplicate names is updated", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)
		set := matchSet(models.Match{ChannelName: "ESPN", Reference: "http://x/logos/ESPN.png", Score: 1})

		result := Annotate(p.Entries, set, logger)

		if result.Entries[0].Logo() != "http://x/logos/ESPN.png" {
			t.Errorf("first ESPN not updated: %+v", result.Entries[0])
		}
		if _, ok := result.Entries[3].Attr("tvg-logo"); ok {
			t.Errorf("second ESPN should be untouched: %+v", result.Entries[3])
		}
	})

	t.Run("input is not modified", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)
		before := string(Marshal(p))
		set := matchSet(
			models.Match{ChannelName: "ESPN", Reference: "a.png", Score: 1},
			models.Match{ChannelName: "CNN International", Reference: "b.png", Score: 1},
		)

		Annotate(p.Entries, set, logger)

		if after := string(Marshal(p)); after != before {
			t.Errorf("input entries modified:\n%s", after)
		}
	})

	t.Run("missing entries are reported", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)
		log, buf := tu.NewTestLogger()
		set := matchSet(
			models.Match{ChannelName: "Fox News", Reference: "fox.png", Score: 0.9},
			models.Match{ChannelName: "ESPN", Reference: "espn.png", Score: 1},
		)

		result := Annotate(p.Entries, set, log)

		if !slices.Equal(result.Missing, []string{"Fox News"}) {
			t.Errorf("unexpected missing %v", result.Missing)
		}
		if result.Updated != 1 {
			t.Errorf("expected processing to continue, got %d updates", result.Updated)
		}
		if !strings.Contains(buf.String(), "entry vanished since the channel list was read") {
			t.Errorf("expected warning in log, got %q", buf.String())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)
		set := matchSet(
			models.Match{ChannelName: "ESPN", Reference: "espn.png", Score: 1},
			models.Match{ChannelName: "BBC One HD", Reference: "bbc.png", Score: 0.8},
		)

		once := Annotate(p.Entries, set, logger)
		twice := Annotate(once.Entries, set, logger)

		first := string(Marshal(p.WithEntries(once.Entries)))
		second := string(Marshal(p.WithEntries(twice.Entries)))
		if first != second {
			t.Errorf("second annotation changed output:\n%s\nvs\n%s", first, second)
		}
	})

	t.Run("empty match set", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)

		result := Annotate(p.Entries, models.NewMatchSet(), nil)

		if result.Updated != 0 || len(result.Entries) != p.Len() {
			t.Errorf("unexpected result %+v", result)
		}
	})
}
