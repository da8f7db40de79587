package view

import (
	"fmt"
	"strings"

	"gwi.com/covalence/internal/mockdata"
)

var logMarkers = map[string]string{
	"success": "✔",
	"error":   "✘",
	"warning": "!",
	"info":    "i",
}

func DatasetsMarkdown(datasets []mockdata.Dataset) string {
	rows := make([][]string, 0, len(datasets))
	for _, d := range datasets {
		rows = append(rows, []string{d.Name, strings.ToUpper(d.Type), d.Size, d.Uploaded, datasetDetail(d)})
	}
	return "## Managed Datasets\n\n" + markdownTable([]string{"Name", "Type", "Size", "Uploaded", "Details"}, rows)
}

func datasetDetail(d mockdata.Dataset) string {
	switch {
	case d.Records > 0:
		return fmt.Sprintf("%s records", formatValue(float64(d.Records)))
	case d.Pages > 0:
		return fmt.Sprintf("%d pages", d.Pages)
	case d.Files > 0:
		return fmt.Sprintf("%d files", d.Files)
	}
	return ""
}

func UsersMarkdown(users []mockdata.ManagedUser) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Name, u.Email, strings.ToUpper(u.Role), u.LastActive, fmt.Sprint(u.Queries)})
	}
	return "## User Management\n\n" + markdownTable([]string{"User", "Email", "Role", "Last Active", "Queries"}, rows)
}

func ActivityLogsMarkdown(logs []mockdata.ActivityLog) string {
	var b strings.Builder
	b.WriteString("## Activity Logs\n\n")
	for _, l := range logs {
		marker, ok := logMarkers[l.Type]
		if !ok {
			marker = "·"
		}
		fmt.Fprintf(&b, "- %s **%s** %s · _%s_  \n  Query: `%s`\n", marker, l.User, l.Action, l.Time, l.Query)
	}
	return b.String()
}
