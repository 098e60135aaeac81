// Package news defines the data types passed between pipeline stages:
// ingested content items, summarization themes, and script segments.
package news

import "time"

// Speaker labels used by the two-voice script format.
const (
	SpeakerInterviewer = "interviewer"
	SpeakerExpert      = "expert"
)

// Item is one ingested unit of news. Items are created during ingestion and
// immutable afterward.
type Item struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Summary    string `json:"summary"`
	Published  string `json:"published"`
	SourceName string `json:"source_name"`
	Provider   string `json:"provider"`
	Method     string `json:"method"`
}

// SourceError records a single source's ingestion failure without aborting
// the run.
type SourceError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Content groups ingested items by provider, preserving source iteration
// order, together with the per-source errors collected along the way.
type Content struct {
	ByProvider map[string][]Item `json:"by_provider"`
	Errors     []SourceError     `json:"errors"`
}

// TotalItems counts items across all providers.
func (c Content) TotalItems() int {
	total := 0
	for _, items := range c.ByProvider {
		total += len(items)
	}
	return total
}

// Model is one entry of a provider's model-listing API.
type Model struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
}

// Theme is a generative-service-produced cluster of related content items.
type Theme struct {
	Name         string   `json:"name"`
	Significance int      `json:"significance"`
	Summary      string   `json:"summary"`
	Items        []string `json:"items,omitempty"`
}

// Summary is the validated output of the summarization stage.
type Summary struct {
	Themes []Theme `json:"themes"`
}

// ScriptSegment is one speaker turn of the generated episode script.
type ScriptSegment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Episode holds the metadata published alongside a finished episode file.
type Episode struct {
	Title       string    `json:"title"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	SizeBytes   int64     `json:"size_bytes"`
	Duration    string    `json:"duration"`
	PubDate     string    `json:"pub_date"`
	Description string    `json:"description"`
	GUID        string    `json:"guid"`
	PublishedAt time.Time `json:"published_at"`
}
