package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gwi.com/covalence/internal/session"
)

func TestRespond_Shapes(t *testing.T) {
	tests := []struct {
		query string
		role  session.Role
		want  ResponseType
	}{
		{"Show me sales by region", session.RoleAnalyst, ResponseTable},
		{"What was REVENUE last quarter?", session.RoleAdmin, ResponseTable},
		{"how many employees", session.RoleIntern, ResponseTable},
		{"plot the trend", session.RoleManager, ResponseChart},
		{"draw a bar chart", session.RoleAnalyst, ResponseChart},
		{"Graph it", session.RoleIntern, ResponseChart},
		{"find the remote work policy", session.RoleAdmin, ResponseSummary},
		{"onboarding guide", session.RoleManager, ResponseSummary},
		{"search the document store", session.RoleIntern, ResponseSummary},
		{"hello", session.RoleIntern, ResponseText},
		{"", session.RoleAdmin, ResponseText},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := Respond(tt.query, tt.role)
			assert.Equal(t, tt.want, r.ResponseType)
			if tt.want == ResponseText {
				assert.Nil(t, r.Payload)
			} else {
				require.NotNil(t, r.Payload)
				assert.Equal(t, tt.want, r.Payload.ResponseType())
			}
		})
	}
}

func TestRespond_PriorityOrder(t *testing.T) {
	// table keywords beat chart and summary keywords
	assert.Equal(t, ResponseTable, Respond("sales trend chart per policy", session.RoleAdmin).ResponseType)
	// chart keywords beat summary keywords
	assert.Equal(t, ResponseChart, Respond("graph of the policy guide", session.RoleAdmin).ResponseType)
}

func TestRespond_Substrings(t *testing.T) {
	// matching is by substring, not by word
	assert.Equal(t, ResponseChart, Respond("trending", session.RoleAdmin).ResponseType)
	assert.Equal(t, ResponseSummary, Respond("documentation", session.RoleAdmin).ResponseType)
}

func TestRespond_InternDisclaimer(t *testing.T) {
	intern := Respond("hello", session.RoleIntern)
	manager := Respond("hello", session.RoleManager)

	assert.Contains(t, intern.Text, AccessDisclaimer)
	assert.NotContains(t, manager.Text, AccessDisclaimer)
	assert.Equal(t,
		`I understand you're asking about "hello". I'll help you find the information you need. Could you be more specific about what data you'd like to see?`,
		manager.Text)
}

func TestRespond_PayloadJSON(t *testing.T) {
	b, err := json.Marshal(Respond("sales", session.RoleAnalyst).Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"columns": ["Month","Revenue","Growth"],
		"data": [
			["January","$125,000","+12%"],
			["February","$140,000","+15%"],
			["March","$158,000","+18%"],
			["April","$165,000","+8%"]
		]
	}`, string(b))

	b, err = json.Marshal(Respond("trend", session.RoleAnalyst).Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "line",
		"data": [
			{"name":"Jan","value":125000},
			{"name":"Feb","value":140000},
			{"name":"Mar","value":158000},
			{"name":"Apr","value":165000},
			{"name":"May","value":172000}
		]
	}`, string(b))

	summary := Respond("policy", session.RoleAnalyst).Payload.(SummaryPayload)
	assert.Equal(t, "HR Handbook 2024, Section 3.2", summary.Source)
	assert.InDelta(t, 0.92, summary.Confidence, 1e-9)
}
