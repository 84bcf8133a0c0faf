package feed

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/novai/newswire/internal/config"
)

const (
	summaryMaxLen  = 300
	topicTagMaxLen = 30
	priorityFactor = 10
)

// normalize converts one parsed feed entry into an Item. It never fails:
// missing fields degrade to placeholders, unparseable dates become now.
// Exclusion is the classifier's job, not ours.
func normalize(src config.Source, entry *gofeed.Item, now time.Time) Item {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		title = "Untitled"
	}

	published := now
	if entry.PublishedParsed != nil {
		published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		published = *entry.UpdatedParsed
	}

	raw := entry.Description
	if raw == "" {
		raw = entry.Content
	}

	ref := entry.GUID
	if ref == "" {
		ref = entry.Link
	}

	return Item{
		ID:              itemID(src.ID, ref),
		Source:          src.Name,
		Title:           title,
		Summary:         truncate(stripHTML(raw), summaryMaxLen),
		PublishedAt:     published,
		Category:        strings.ToLower(src.Category),
		TopicTag:        slugify(title),
		ImportanceScore: src.Priority * priorityFactor,
		URL:             entry.Link,
	}
}

// itemID derives a deterministic id from source + entry reference so the
// same story keeps its id across refreshes. Entries with no guid and no
// link get a random id instead.
func itemID(sourceID, ref string) string {
	if ref == "" {
		var b [8]byte
		if _, err := rand.Read(b[:]); err == nil {
			ref = hex.EncodeToString(b[:])
		}
	}
	h := sha256.Sum256([]byte(sourceID + "|" + ref))
	return fmt.Sprintf("%x", h[:16])
}

// stripHTML removes markup and decodes entities, collapsing whitespace.
// On a parse failure the raw input is returned rather than dropping text.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// slugify produces the best-effort topic tag: lower-cased title with
// non-alphanumeric runs collapsed to a single dash.
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	tag := strings.Trim(b.String(), "-")
	if len(tag) > topicTagMaxLen {
		tag = strings.Trim(tag[:topicTagMaxLen], "-")
	}
	if tag == "" {
		return "news"
	}
	return tag
}

func lowerJoin(parts ...string) string {
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}
