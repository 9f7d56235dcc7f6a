package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/spf13/afero"

	"rtsim/internal/sched"
)

var page = template.Must(template.New("journal").Parse(`<html><head><title>{{.Title}}</title></head><body>
<h2>RTOS Task &amp; Event Timeline</h2>
{{- if .RunID}}
<p>Run {{.RunID}}</p>
{{- end}}
<table border='1'>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table></body></html>
`))

// WriteHTML dumps the journal as a single HTML table.
func WriteHTML(fs afero.Fs, path, runID string, entries []sched.Entry) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := EncodeHTML(f, runID, entries); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// EncodeHTML renders entries to w. Text is HTML-escaped.
func EncodeHTML(w io.Writer, runID string, entries []sched.Entry) error {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = row(e)
	}
	return page.Execute(w, struct {
		Title  string
		RunID  string
		Header []string
		Rows   [][]string
	}{
		Title:  "RTOS Log",
		RunID:  runID,
		Header: Header,
		Rows:   rows,
	})
}
