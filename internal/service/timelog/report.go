package timelog

import (
	"bytes"
	"html/template"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
)

const companyName = "Gil Ponto"

type reportPage struct {
	Title       string
	Subtitle    string
	Logs        []timelog.TimeLog
	GeneratedAt time.Time
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"typeLabel": func(t timelog.PunchType) string {
		if t == timelog.PunchIn {
			return "ENTRADA"
		}
		return "SAÍDA"
	},
	"statusLabel": func(verified bool) string {
		if verified {
			return "OK"
		}
		return "NÃO VERIFICADO"
	},
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; color: #000; padding: 2rem; }
table { width: 100%; border-collapse: collapse; font-size: 12px; }
th, td { border: 1px solid #000; padding: 6px; text-align: left; }
th { background: #e5e7eb; }
.muted { color: #6b7280; }
footer { margin-top: 2rem; padding-top: 1rem; border-top: 1px solid #000; font-size: 12px; text-align: center; }
</style>
</head>
<body onload="window.print()">
<h1>{{.Company}}</h1>
<h2>{{.Title}}</h2>
<p class="muted">{{.Subtitle}}</p>
<table>
<thead>
<tr><th>Funcionário</th><th>Data/Hora</th><th>Tipo</th><th>Status</th><th>Mensagem</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
<td>{{.EmployeeName}} <span class="muted">({{.EmployeeID}})</span></td>
<td>{{.When}}</td>
<td>{{typeLabel .Type}}</td>
<td>{{statusLabel .IsVerified}}</td>
<td>{{.VerificationMessage}}</td>
</tr>
{{- end}}
</tbody>
</table>
<footer>Relatório gerado em {{.GeneratedAt}}</footer>
</body>
</html>
`))

type reportRow struct {
	timelog.TimeLog
	When string
}

func renderReport(page reportPage, loc *time.Location) ([]byte, error) {
	const layout = dateLayout + " " + timeLayout

	rows := make([]reportRow, 0, len(page.Logs))
	for _, l := range page.Logs {
		rows = append(rows, reportRow{TimeLog: l, When: l.Timestamp.In(loc).Format(layout)})
	}

	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, struct {
		Company     string
		Title       string
		Subtitle    string
		Rows        []reportRow
		GeneratedAt string
	}{
		Company:     companyName,
		Title:       page.Title,
		Subtitle:    page.Subtitle,
		Rows:        rows,
		GeneratedAt: page.GeneratedAt.In(loc).Format(layout),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
