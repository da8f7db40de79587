package core

import "time"

type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// ResponseType tags which renderer a reply needs.
type ResponseType string

const (
	ResponseTable   ResponseType = "table"
	ResponseChart   ResponseType = "chart"
	ResponseSummary ResponseType = "summary"
	ResponseImage   ResponseType = "image"
	ResponseText    ResponseType = "text"
)

// Payload is the structured part of a reply. Exactly one of the concrete
// payload types below implements it per response type.
type Payload interface {
	ResponseType() ResponseType
}

type TablePayload struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"data"`
}

func (TablePayload) ResponseType() ResponseType { return ResponseTable }

type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

type ChartPoint struct {
	Label string  `json:"name"`
	Value float64 `json:"value"`
}

type ChartPayload struct {
	Kind   ChartKind    `json:"type"`
	Series []ChartPoint `json:"data"`
}

func (ChartPayload) ResponseType() ResponseType { return ResponseChart }

type SummaryPayload struct {
	Title      string  `json:"title"`
	Text       string  `json:"summary"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

func (SummaryPayload) ResponseType() ResponseType { return ResponseSummary }

type ImagePayload struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

func (ImagePayload) ResponseType() ResponseType { return ResponseImage }

type Message struct {
	ID           string       `json:"id"`
	Author       Author       `json:"author"`
	Text         string       `json:"text"`
	Timestamp    time.Time    `json:"timestamp"`
	ResponseType ResponseType `json:"response_type,omitempty"`
	Payload      Payload      `json:"response_data,omitempty"`
}

type Conversation struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
