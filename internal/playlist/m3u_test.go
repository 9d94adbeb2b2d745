package playlist

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/logomatch/internal/shared"
	tu "github.com/desertthunder/logomatch/internal/testing"
)

func mustParse(t *testing.T, s string) *Playlist {
	t.Helper()
	p, err := Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestParse(t *testing.T) {
	t.Run("sample playlist", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)

		if p.Len() != 4 {
			t.Fatalf("expected 4 entries, got %d", p.Len())
		}

		want := []string{"ESPN", "CNN International", "BBC One HD", "ESPN"}
		if !slices.Equal(p.Names(), want) {
			t.Errorf("Names() = %v, want %v", p.Names(), want)
		}

		if v, ok := findAttr(p.Attributes, "x-tvg-url"); !ok || v != "http://epg.example/guide.xml" {
			t.Errorf("unexpected header attribute %q", v)
		}

		espn := p.Entries[0]
		if espn.Duration != "-1" {
			t.Errorf("expected duration -1, got %s", espn.Duration)
		}
		if espn.URL != "http://stream.example/espn" {
			t.Errorf("unexpected URL %s", espn.URL)
		}
		if v, ok := espn.Attr("tvg-logo"); !ok || v != "" {
			t.Errorf("expected empty tvg-logo attribute, got %q (ok=%v)", v, ok)
		}

		keys := attrKeys(espn.Attributes)
		if !slices.Equal(keys, []string{"tvg-id", "tvg-logo", "group-title"}) {
			t.Errorf("attribute order not preserved: %v", keys)
		}

		cnn := p.Entries[1]
		if !slices.Equal(cnn.Extras, []string{"#EXTVLCOPT:http-user-agent=Player"}) {
			t.Errorf("unexpected extras %v", cnn.Extras)
		}
	})

	t.Run("comma inside quoted attribute", func(t *testing.T) {
		p := mustParse(t, "#EXTM3U\n#EXTINF:-1 group-title=\"News, World\",Al Jazeera\nhttp://x/aj\n")

		e := p.Entries[0]
		if e.Name != "Al Jazeera" {
			t.Errorf("expected name Al Jazeera, got %q", e.Name)
		}
		if v, _ := e.Attr("group-title"); v != "News, World" {
			t.Errorf("expected group-title 'News, World', got %q", v)
		}
	})

	t.Run("name with comma", func(t *testing.T) {
		p := mustParse(t, "#EXTM3U\n#EXTINF:0,Sports, Live\nhttp://x/s\n")

		if p.Entries[0].Name != "Sports, Live" {
			t.Errorf("unexpected name %q", p.Entries[0].Name)
		}
		if p.Entries[0].Duration != "0" {
			t.Errorf("unexpected duration %q", p.Entries[0].Duration)
		}
	})

	t.Run("url without info line", func(t *testing.T) {
		p := mustParse(t, "#EXTM3U\nhttp://x/bare\n")

		if p.Len() != 1 {
			t.Fatalf("expected 1 entry, got %d", p.Len())
		}
		e := p.Entries[0]
		if e.Name != "" || e.Duration != "-1" || e.URL != "http://x/bare" {
			t.Errorf("unexpected entry %+v", e)
		}
	})

	t.Run("crlf and blank lines", func(t *testing.T) {
		p := mustParse(t, "\r\n#EXTM3U\r\n\r\n#EXTINF:-1,ZDF\r\n\r\nhttp://x/zdf\r\n")

		if p.Len() != 1 || p.Entries[0].Name != "ZDF" || p.Entries[0].URL != "http://x/zdf" {
			t.Errorf("unexpected entries %+v", p.Entries)
		}
	})

	t.Run("byte order mark", func(t *testing.T) {
		p := mustParse(t, "\ufeff#EXTM3U\n#EXTINF:-1,ARD\nhttp://x/ard\n")

		if p.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", p.Len())
		}
	})

	t.Run("info line without url", func(t *testing.T) {
		p := mustParse(t, "#EXTM3U\n#EXTINF:-1,First\n#EXTINF:-1,Second\nhttp://x/2\n")

		if !slices.Equal(p.Names(), []string{"First", "Second"}) {
			t.Errorf("unexpected names %v", p.Names())
		}
		if p.Entries[0].URL != "" {
			t.Errorf("expected empty URL, got %q", p.Entries[0].URL)
		}
	})

	t.Run("trailing directives", func(t *testing.T) {
		p := mustParse(t, "#EXTM3U\n#EXTINF:-1,A\nhttp://x/a\n#EXT-X-ENDLIST\n")

		if !slices.Equal(p.Trailer, []string{"#EXT-X-ENDLIST"}) {
			t.Errorf("unexpected trailer %v", p.Trailer)
		}
	})

	t.Run("empty playlist", func(t *testing.T) {
		p := mustParse(t, "#EXTM3U\n")
		if p.Len() != 0 {
			t.Errorf("expected no entries, got %d", p.Len())
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"blank lines only", "\n\n"},
		{"missing header", "#EXTINF:-1,ESPN\nhttp://x/espn\n"},
		{"plain text", "hello world\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, shared.ErrInvalidPlaylist) {
				t.Errorf("expected ErrInvalidPlaylist, got %v", err)
			}
		})
	}
}

func TestEntry(t *testing.T) {
	base := Entry{
		Name:     "ESPN",
		Duration: "-1",
		URL:      "http://x/espn",
		Attributes: []Attribute{
			{Key: "tvg-id", Value: "espn"},
			{Key: "tvg-logo", Value: "old.png"},
			{Key: "group-title", Value: "Sports"},
		},
		Extras: []string{"#EXTGRP:Sports"},
	}

	t.Run("WithLogo replaces in place", func(t *testing.T) {
		got := base.WithLogo("new.png")

		if got.Logo() != "new.png" {
			t.Errorf("expected new.png, got %s", got.Logo())
		}
		if !slices.Equal(attrKeys(got.Attributes), []string{"tvg-id", "tvg-logo", "group-title"}) {
			t.Errorf("attribute order changed: %v", attrKeys(got.Attributes))
		}
		if base.Logo() != "old.png" {
			t.Errorf("receiver was modified: %s", base.Logo())
		}
	})

	t.Run("WithLogo appends when absent", func(t *testing.T) {
		e := Entry{Name: "CNN", Attributes: []Attribute{{Key: "tvg-id", Value: "cnn"}}}
		got := e.WithLogo("cnn.png")

		if !slices.Equal(attrKeys(got.Attributes), []string{"tvg-id", "tvg-logo"}) {
			t.Errorf("unexpected attributes %v", got.Attributes)
		}
		if len(e.Attributes) != 1 {
			t.Errorf("receiver attributes changed: %v", e.Attributes)
		}
	})

	t.Run("WithLogo is idempotent", func(t *testing.T) {
		once := base.WithLogo("x.png")
		twice := once.WithLogo("x.png")

		if !slices.Equal(once.Attributes, twice.Attributes) {
			t.Errorf("second application changed attributes: %v vs %v", once.Attributes, twice.Attributes)
		}
	})

	t.Run("copies do not share extras", func(t *testing.T) {
		got := base.WithAttr("tvg-name", "ESPN")
		got.Extras[0] = "#EXTGRP:Changed"

		if base.Extras[0] != "#EXTGRP:Sports" {
			t.Errorf("receiver extras modified: %v", base.Extras)
		}
	})

	t.Run("Attr on missing key", func(t *testing.T) {
		if _, ok := base.Attr("tvg-country"); ok {
			t.Error("expected missing attribute")
		}
		if (Entry{}).Logo() != "" {
			t.Error("expected empty logo")
		}
	})
}

func TestPlaylistHelpers(t *testing.T) {
	p := mustParse(t, tu.SamplePlaylist)

	if i := p.IndexOf("ESPN"); i != 0 {
		t.Errorf("IndexOf(ESPN) = %d, want 0", i)
	}
	if i := p.IndexOf("BBC One HD"); i != 2 {
		t.Errorf("IndexOf(BBC One HD) = %d, want 2", i)
	}
	if i := p.IndexOf("espn"); i != -1 {
		t.Errorf("IndexOf is case sensitive, got %d", i)
	}

	replaced := p.WithEntries(p.Entries[:1])
	if replaced.Len() != 1 || p.Len() != 4 {
		t.Errorf("WithEntries changed the source: %d/%d", replaced.Len(), p.Len())
	}
	if len(replaced.Attributes) != len(p.Attributes) {
		t.Error("WithEntries dropped header attributes")
	}
}

func TestMarshal(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)
		out := string(Marshal(p))

		if out != tu.SamplePlaylist {
			t.Errorf("round trip mismatch:\n%s\nwant:\n%s", out, tu.SamplePlaylist)
		}
	})

	t.Run("bare url gets info line", func(t *testing.T) {
		p := mustParse(t, "#EXTM3U\nhttp://x/bare\n")
		want := "#EXTM3U\n#EXTINF:-1,\nhttp://x/bare\n"

		if got := string(Marshal(p)); got != want {
			t.Errorf("Marshal() = %q, want %q", got, want)
		}
	})

	t.Run("empty duration defaults", func(t *testing.T) {
		p := &Playlist{Entries: []Entry{{Name: "A", URL: "http://x/a"}}}
		want := "#EXTM3U\n#EXTINF:-1,A\nhttp://x/a\n"

		if got := string(Marshal(p)); got != want {
			t.Errorf("Marshal() = %q, want %q", got, want)
		}
	})

	t.Run("write error", func(t *testing.T) {
		p := mustParse(t, tu.SamplePlaylist)
		if err := Write(&tu.FWriter{}, p); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestLoadAndSave(t *testing.T) {
	t.Run("save then load", func(t *testing.T) {
		dir := t.TempDir()
		path := tu.WriteFixture(t, dir, "tv.m3u", tu.SamplePlaylist)

		p, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		entries := slices.Clone(p.Entries)
		entries[1] = entries[1].WithLogo("http://x/logos/CNN.png")
		if err := Save(path, p.WithEntries(entries)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		reloaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load() after save error = %v", err)
		}
		if reloaded.Entries[1].Logo() != "http://x/logos/CNN.png" {
			t.Errorf("logo not persisted: %+v", reloaded.Entries[1])
		}
		if reloaded.Entries[0].Logo() != "" {
			t.Errorf("unrelated entry changed: %+v", reloaded.Entries[0])
		}
	})

	t.Run("save keeps mode", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not preserved on windows")
		}
		path := filepath.Join(t.TempDir(), "tv.m3u")
		if err := os.WriteFile(path, []byte(tu.SamplePlaylist), 0600); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		if err := Save(path, mustParse(t, tu.SamplePlaylist)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		fi, _ := os.Stat(path)
		if fi.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", fi.Mode().Perm())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.m3u")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		path := tu.WriteFixture(t, t.TempDir(), "bad.m3u", "not a playlist\n")

		_, err := Load(path)
		if !errors.Is(err, shared.ErrInvalidPlaylist) {
			t.Errorf("expected ErrInvalidPlaylist, got %v", err)
		}
	})
}

func findAttr(attrs []Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func attrKeys(attrs []Attribute) []string {
	keys := make([]string, len(attrs))
	for i, a := range attrs {
		keys[i] = a.Key
	}
	return keys
}
