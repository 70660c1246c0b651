package smtp

import (
	"bytes"
	"html/template"
	"strings"
)

var processUpdateTmpl = template.Must(template.New("process_update").Parse(`<!DOCTYPE html>
<html lang="es">
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>Actualización del proceso {{.CaseNumber}}</h2>
  <p>{{.Message}}</p>
  {{- if .Link}}
  <p><a href="{{.Link}}">Ver el proceso</a></p>
  {{- end}}
  <p style="font-size: 12px; color: #7b8794;">Recibes este correo porque marcaste el proceso como favorito.</p>
</body>
</html>`))

// ProcessUpdate is the data rendered into the process update email.
type ProcessUpdate struct {
	CaseNumber string
	Message    string
	Link       string
}

// RenderProcessUpdate builds the HTML body for a case change email. The link
// points at the case page of the frontend when frontendURL is set.
func RenderProcessUpdate(frontendURL, caseNumber, message string) (string, error) {
	data := ProcessUpdate{CaseNumber: caseNumber, Message: message}
	if frontendURL != "" {
		data.Link = strings.TrimRight(frontendURL, "/") + "/processes/" + caseNumber
	}
	var buf bytes.Buffer
	if err := processUpdateTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
