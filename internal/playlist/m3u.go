// Package playlist reads, edits and writes M3U Plus playlists.
//
// Entries are values. Edits such as [Entry.WithLogo] return a new entry and leave the receiver and
// its attribute slice untouched, so a parsed [Playlist] can be shared between readers.
package playlist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/desertthunder/logomatch/internal/shared"
)

const (
	headerDirective = "#EXTM3U"
	infoDirective   = "#EXTINF:"

	// LogoAttribute is the attribute holding a channel's logo reference.
	LogoAttribute = "tvg-logo"

	defaultDuration = "-1"
	maxLineSize     = 1024 * 1024
)

var attributePattern = regexp.MustCompile(`([\w-]+)="([^"]*)"`)

// Attribute is a key="value" pair from a directive line.
type Attribute struct {
	Key   string
	Value string
}

// Entry is one channel of a playlist.
type Entry struct {
	Name       string
	Duration   string
	URL        string
	Attributes []Attribute
	Extras     []string // Directive lines other than #EXTINF, e.g. #EXTGRP or #EXTVLCOPT
}

// Attr returns the value of the first attribute named key.
func (e Entry) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Logo returns the entry's tvg-logo value or an empty string.
func (e Entry) Logo() string {
	v, _ := e.Attr(LogoAttribute)
	return v
}

// WithAttr returns a copy of e with key set to value.
// An existing attribute keeps its position; a new one is appended.
func (e Entry) WithAttr(key, value string) Entry {
	attrs := make([]Attribute, len(e.Attributes), len(e.Attributes)+1)
	copy(attrs, e.Attributes)

	replaced := false
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		attrs = append(attrs, Attribute{Key: key, Value: value})
	}

	e.Attributes = attrs
	if e.Extras != nil {
		e.Extras = append([]string(nil), e.Extras...)
	}
	return e
}

// WithLogo returns a copy of e whose tvg-logo attribute is ref.
func (e Entry) WithLogo(ref string) Entry {
	return e.WithAttr(LogoAttribute, ref)
}

// Playlist is a parsed M3U document.
type Playlist struct {
	Attributes []Attribute // Attributes of the #EXTM3U header
	Entries    []Entry
	Trailer    []string // Directive lines after the last entry
}

// Names returns the entry names in playlist order, duplicates included.
func (p *Playlist) Names() []string {
	names := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		names[i] = e.Name
	}
	return names
}

// IndexOf returns the index of the first entry named name, or -1.
func (p *Playlist) IndexOf(name string) int {
	for i, e := range p.Entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// WithEntries returns a playlist with p's header and trailer and the given entries.
func (p *Playlist) WithEntries(entries []Entry) *Playlist {
	return &Playlist{
		Attributes: p.Attributes,
		Entries:    entries,
		Trailer:    p.Trailer,
	}
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	return len(p.Entries)
}

// Parse reads an M3U playlist. The first non-blank line must be the #EXTM3U header.
//
// A URL line closes the pending #EXTINF entry. A URL without a preceding #EXTINF becomes an entry with
// duration -1 and an empty name. Other directive lines are kept with the entry they belong to.
func Parse(r io.Reader) (*Playlist, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	p := &Playlist{}
	var (
		pending  *Entry
		extras   []string
		seenHead bool
		lineNo   int
	)

	flush := func(url string) {
		if pending == nil {
			pending = &Entry{Duration: defaultDuration}
		}
		pending.URL = url
		pending.Extras = append(pending.Extras, extras...)
		p.Entries = append(p.Entries, *pending)
		pending, extras = nil, nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}

		if !seenHead {
			if !strings.HasPrefix(line, headerDirective) {
				return nil, fmt.Errorf("%w: line %d: expected %s header", shared.ErrInvalidPlaylist, lineNo, headerDirective)
			}
			p.Attributes = parseAttributes(strings.TrimPrefix(line, headerDirective))
			seenHead = true
			continue
		}

		switch {
		case strings.HasPrefix(line, infoDirective):
			if pending != nil {
				flush("")
			}
			e := parseInfo(strings.TrimPrefix(line, infoDirective))
			pending = &e
		case strings.HasPrefix(line, "#"):
			extras = append(extras, line)
		default:
			flush(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	if !seenHead {
		return nil, fmt.Errorf("%w: missing %s header", shared.ErrInvalidPlaylist, headerDirective)
	}

	if pending != nil {
		flush("")
	}
	p.Trailer = extras

	return p, nil
}

// parseInfo splits `<duration> k="v" ...,<name>` on the first comma outside quotes.
func parseInfo(s string) Entry {
	head, name := s, ""
	inQuotes := false
	for i, r := range s {
		if r == '"' {
			inQuotes = !inQuotes
		}
		if r == ',' && !inQuotes {
			head, name = s[:i], s[i+1:]
			break
		}
	}

	head = strings.TrimSpace(head)
	duration, rest, _ := strings.Cut(head, " ")
	if duration == "" {
		duration = defaultDuration
	}

	return Entry{
		Name:       strings.TrimSpace(name),
		Duration:   duration,
		Attributes: parseAttributes(rest),
	}
}

func parseAttributes(s string) []Attribute {
	found := attributePattern.FindAllStringSubmatch(s, -1)
	if len(found) == 0 {
		return nil
	}

	attrs := make([]Attribute, 0, len(found))
	for _, m := range found {
		attrs = append(attrs, Attribute{Key: m[1], Value: m[2]})
	}
	return attrs
}

// Write serializes p as M3U Plus to w.
func Write(w io.Writer, p *Playlist) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(headerDirective)
	writeAttributes(bw, p.Attributes)
	bw.WriteByte('\n')

	for _, e := range p.Entries {
		duration := e.Duration
		if duration == "" {
			duration = defaultDuration
		}

		bw.WriteString(infoDirective)
		bw.WriteString(duration)
		writeAttributes(bw, e.Attributes)
		bw.WriteByte(',')
		bw.WriteString(e.Name)
		bw.WriteByte('\n')

		for _, extra := range e.Extras {
			bw.WriteString(extra)
			bw.WriteByte('\n')
		}
		if e.URL != "" {
			bw.WriteString(e.URL)
			bw.WriteByte('\n')
		}
	}

	for _, line := range p.Trailer {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func writeAttributes(w *bufio.Writer, attrs []Attribute) {
	for _, a := range attrs {
		w.WriteByte(' ')
		w.WriteString(a.Key)
		w.WriteString(`="`)
		w.WriteString(a.Value)
		w.WriteByte('"')
	}
}

// Marshal returns p as M3U Plus text.
func Marshal(p *Playlist) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, p)
	return buf.Bytes()
}

// Load parses the playlist at path.
func Load(path string) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save overwrites path with p. The file is replaced atomically and keeps its mode.
func Save(path string, p *Playlist) error {
	if err := shared.WriteFileAtomic(path, Marshal(p), 0o644); err != nil {
		return fmt.Errorf("failed to save playlist: %w", err)
	}
	return nil
}
