package feed

import "time"

// Item is the aggregate unit flowing through the whole pipeline: one
// normalized feed entry tagged with its source descriptor.
type Item struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	PublishedAt     time.Time `json:"publishedAt"`
	Category        string    `json:"category"`
	TopicTag        string    `json:"topicTag"`
	ImportanceScore int       `json:"importanceScore"`
	URL             string    `json:"url"`
}

// Text returns the lower-cased title+summary used by keyword matching.
func (it Item) Text() string {
	return lowerJoin(it.Title, it.Summary)
}
