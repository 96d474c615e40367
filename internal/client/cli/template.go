package cli

import (
	"fmt"
	"text/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"clock": func(t time.Time) string {
		return t.Local().Format("15:04:05")
	},
	"until": func(t time.Time) string {
		remaining := time.Until(t).Round(time.Second)
		if remaining <= 0 {
			return "expired"
		}
		return fmt.Sprintf("in %s", remaining)
	},
}

const profileTemplate = `
=== Profile ===

Username: {{.Username}}
Name:     {{.DisplayName}}
{{- if .Email }}
Email:    {{.Email}}
{{- end}}
{{- if .City }}
City:     {{.City}}{{if .District}} ({{.District}}){{end}}
{{- end}}
{{- if .Level }}
Level:    {{.Level}}
{{- end}}
{{- if .Bio }}
Bio:      {{.Bio}}
{{- end}}
`

const statusTemplate = `
=== Session Status ===

API:      {{.API}}
Theme:    {{.Theme}} ({{.Mode}})
{{- if .User }}
Status:   Authenticated
User:     {{.User.DisplayName}} ({{.User.Username}})
{{- if .HasExpiry }}
Token:    expires {{clock .TokenExpiry}} ({{until .TokenExpiry}})
{{- end}}
{{- if not .IdleDeadline.IsZero }}
Idle:     session closes at {{clock .IdleDeadline}} without activity
{{- end}}
{{- else }}
Status:   Not authenticated
{{- end}}
`

var (
	profileTmpl = template.Must(template.New("profile").Funcs(templateFuncs).Parse(profileTemplate))
	statusTmpl  = template.Must(template.New("status").Funcs(templateFuncs).Parse(statusTemplate))
)
