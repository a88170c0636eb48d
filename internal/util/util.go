package util

import (
	"bytes"
	"net/mail"
	"strings"
	"text/template"
)

// ValidateEmail reports whether s is a plausible mail address.
func ValidateEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// RenderTemplate renders templateString with templateValues.
func RenderTemplate(templateString string, templateValues interface{}) (string, error) {
	t, err := template.New("").Parse(strings.Join([]string{
		"{{define \"T\"}}",
		templateString,
		"{{end}}",
	}, ""))
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err = t.ExecuteTemplate(&out, "T", templateValues); err != nil {
		return "", err
	}

	return out.String(), nil
}
