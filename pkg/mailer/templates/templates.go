package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

var tpls = template.Must(template.New("mail").Parse(`
{{define "user_welcome"}}
<html><body>
<h2>Welcome, {{.FullName}}!</h2>
<p>Your account ({{.Email}}) has been created. You can sign in right away.</p>
{{if .CompanyName}}<p>— {{.CompanyName}}</p>{{end}}
</body></html>
{{end}}

{{define "account_deleted"}}
<html><body>
<h2>Account removed</h2>
<p>The account for {{.Email}} was deleted by an administrator.</p>
<p>If you believe this was a mistake, contact support.</p>
{{if .CompanyName}}<p>— {{.CompanyName}}</p>{{end}}
</body></html>
{{end}}
`))

// Subjects per template name.
var subjects = map[string]string{
	"user_welcome":    "Welcome aboard",
	"account_deleted": "Your account was removed",
}

// Render returns the subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := tpls.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}
	subject, ok := subjects[name]
	if !ok {
		subject = "Notification"
	}
	return subject, buf.String(), nil
}
