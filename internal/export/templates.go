package export

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"opengov/api/internal/activity"
	"opengov/api/internal/comment"
	"opengov/api/internal/report"
)

var funcMap = template.FuncMap{
	"lower": strings.ToLower,
	"formatDate": func(t time.Time, layout string) string {
		return t.Format(layout)
	},
	"detag": func(s string) string {
		return strings.ReplaceAll(s, "_", " ")
	},
}

var (
	listTemplate   = template.Must(template.New("list").Funcs(funcMap).Parse(listTemplateHTML))
	detailTemplate = template.Must(template.New("detail").Funcs(funcMap).Parse(detailTemplateHTML))
)

// ListData holds data for the list summary template
type ListData struct {
	Reports     []report.Report
	GeneratedAt time.Time
}

// DetailData holds data for the single-report template
type DetailData struct {
	Report   report.Report
	Comments []comment.Comment
	Timeline []activity.Entry
}

func renderListHTML(data ListData) (string, error) {
	var buf bytes.Buffer
	if err := listTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderDetailHTML(data DetailData) (string, error) {
	var buf bytes.Buffer
	if err := detailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const listTemplateHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>OpenGov Reports</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    table { width: 100%; border-collapse: collapse; }
    th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; font-size: 0.9em; }
    th { background: #3b82f6; color: #fff; }
  </style>
</head>
<body>
  <h1>OpenGov Reports</h1>
  <div class="meta">Generated {{formatDate .GeneratedAt "Jan 2, 2006 15:04"}} · {{len .Reports}} report(s)</div>
  <table>
    <tr><th>Title</th><th>Category</th><th>Status</th><th>Location</th><th>Date</th></tr>
    {{range .Reports}}
    <tr>
      <td>{{.Title}}</td>
      <td>{{.Category}}</td>
      <td>{{detag (printf "%s" .Status)}}</td>
      <td>{{.Location}}</td>
      <td>{{formatDate .CreatedAt "Jan 2, 2006"}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>`

const detailTemplateHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Report: {{.Report.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; padding: 40px; }
    h1 { color: #1e40af; }
    .meta { color: #666; margin: 10px 0; }
    .section { margin: 20px 0; }
    .label { font-weight: bold; }
    .comment { background: #f5f5f5; padding: 1rem; margin: 1rem 0; border-left: 3px solid #1e40af; }
  </style>
</head>
<body>
  <h1>{{.Report.Title}}</h1>
  <div class="meta">Report ID: {{.Report.ID}}</div>
  <div class="meta">Status: {{detag (printf "%s" .Report.Status)}}</div>
  <div class="section">
    <div class="label">Category:</div>
    <div>{{.Report.Category}}</div>
  </div>
  <div class="section">
    <div class="label">Location:</div>
    <div>{{.Report.Location}}</div>
  </div>
  <div class="section">
    <div class="label">Description:</div>
    <div>{{.Report.Description}}</div>
  </div>
  <div class="section">
    <div class="label">Reported by:</div>
    <div>{{.Report.CitizenName}}</div>
  </div>
  {{if .Report.AssignedToName}}
  <div class="section">
    <div class="label">Assigned to:</div>
    <div>{{.Report.AssignedToName}}</div>
  </div>
  {{end}}
  <div class="section">
    <div class="label">Created:</div>
    <div>{{formatDate .Report.CreatedAt "Jan 2, 2006 15:04"}}</div>
  </div>
  {{if .Timeline}}
  <div class="section">
    <div class="label">Timeline:</div>
    {{range .Timeline}}
    <div>{{.Title}} — {{.Actor}} · {{formatDate .Time "Jan 2, 2006 15:04"}}</div>
    {{end}}
  </div>
  {{end}}
  {{if .Comments}}
  <div class="section">
    <div class="label">Comments:</div>
    {{range .Comments}}
    <div class="comment">{{.UserName}} ({{.UserRole}}): {{.Text}}</div>
    {{end}}
  </div>
  {{end}}
</body>
</html>`
