// Package harvest extracts logo candidates from an HTML directory listing.
//
// A listing is any document whose anchors link to logo files, such as an Apache or nginx autoindex page.
// Every anchor whose href and visible text both contain a "." becomes a [models.Candidate];
// everything else (sort links, parent directory links, prose) is skipped without error.
package harvest

import (
	"iter"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/logomatch/internal/models"
)

// Harvest lazily yields candidates from listing in document order.
//
// References are built by joining base and the anchor's href with a single "/".
// A listing that cannot be parsed yields nothing.
func Harvest(listing, base string) iter.Seq[models.Candidate] {
	return func(yield func(models.Candidate) bool) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(listing))
		if err != nil {
			return
		}

		doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			c, ok := candidate(base, href, s.Text())
			if !ok {
				return true
			}
			return yield(c)
		})
	}
}

// Collect harvests listing into a slice.
func Collect(listing, base string) []models.Candidate {
	return slices.Collect(Harvest(listing, base))
}

func candidate(base, href, display string) (models.Candidate, bool) {
	href = strings.TrimSpace(href)
	display = strings.TrimSpace(display)

	if !strings.Contains(href, ".") || !strings.Contains(display, ".") {
		return models.Candidate{}, false
	}

	return models.Candidate{
		Name:      StripExtension(display),
		Reference: JoinReference(base, href),
	}, true
}

// StripExtension removes everything from the final "." onward.
// Names without a "." are returned unchanged.
func StripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// JoinReference joins base and ref with exactly one "/" between them.
func JoinReference(base, ref string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
