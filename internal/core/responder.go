package core

import (
	"strings"

	"gwi.com/covalence/internal/session"
)

const (
	greetingText = "Hello! I'm your AI assistant. I can help you analyze data, search documents, and answer questions based on your role and permissions. What would you like to know?"

	tableText   = "Here's the data analysis based on your query:"
	chartText   = "Here's a visual representation of the data:"
	summaryText = "I found relevant information in the company documents:"

	// AccessDisclaimer is appended to free-text replies for interns.
	AccessDisclaimer = " (Note: Some sensitive data is filtered based on your access level)"
)

// Keyword sets, checked in this order. The first set with a match wins.
var (
	tableKeywords   = []string{"sales", "revenue", "employees"}
	chartKeywords   = []string{"chart", "graph", "trend"}
	summaryKeywords = []string{"policy", "document", "guide"}
)

// Reply is the content of an assistant message, before it gets an id and
// timestamp.
type Reply struct {
	Text         string
	ResponseType ResponseType
	Payload      Payload
}

// Respond picks a canned reply for query by keyword. It has no side effects.
func Respond(query string, role session.Role) Reply {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, tableKeywords):
		return Reply{Text: tableText, ResponseType: ResponseTable, Payload: revenueTable()}
	case containsAny(q, chartKeywords):
		return Reply{Text: chartText, ResponseType: ResponseChart, Payload: revenueTrend()}
	case containsAny(q, summaryKeywords):
		return Reply{Text: summaryText, ResponseType: ResponseSummary, Payload: policySummary()}
	}

	disclaimer := ""
	if role == session.RoleIntern {
		disclaimer = AccessDisclaimer
	}
	return Reply{
		Text: `I understand you're asking about "` + query + `". I'll help you find the information you need.` +
			disclaimer + ` Could you be more specific about what data you'd like to see?`,
		ResponseType: ResponseText,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func revenueTable() TablePayload {
	return TablePayload{
		Columns: []string{"Month", "Revenue", "Growth"},
		Rows: [][]string{
			{"January", "$125,000", "+12%"},
			{"February", "$140,000", "+15%"},
			{"March", "$158,000", "+18%"},
			{"April", "$165,000", "+8%"},
		},
	}
}

func revenueTrend() ChartPayload {
	return ChartPayload{
		Kind: ChartLine,
		Series: []ChartPoint{
			{Label: "Jan", Value: 125000},
			{Label: "Feb", Value: 140000},
			{Label: "Mar", Value: 158000},
			{Label: "Apr", Value: 165000},
			{Label: "May", Value: 172000},
		},
	}
}

func policySummary() SummaryPayload {
	return SummaryPayload{
		Title:      "Company Policy Summary",
		Text:       "Based on the HR handbook, remote work is allowed up to 3 days per week with manager approval. All employees must maintain core hours between 9 AM - 3 PM EST.",
		Source:     "HR Handbook 2024, Section 3.2",
		Confidence: 0.92,
	}
}
