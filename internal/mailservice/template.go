package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateBlocks = []string{"subject", "plainBody", "htmlBody"}

var templateFuncs = template.FuncMap{
	"greeting": func(name string) string {
		name = strings.TrimSpace(name)
		if name == "" {
			return "Hi,"
		}
		return "Hi " + name + ","
	},
}

// Email is a rendered message ready to be handed to the dialer.
type Email struct {
	Subject string
	Plain   string
	HTML    string
}

// Templates holds every embedded email template, parsed once at startup.
type Templates struct {
	set map[string]*template.Template
}

func NewTemplates() (*Templates, error) {
	files, err := fs.Glob(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := path.Base(f)

		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, f)
		if err != nil {
			return nil, fmt.Errorf("could not parse template %s: %w", name, err)
		}

		for _, block := range templateBlocks {
			if t.Lookup(block) == nil {
				return nil, fmt.Errorf("template %s has no %q block", name, block)
			}
		}

		set[name] = t
	}

	return &Templates{set: set}, nil
}

// Render executes the subject, plainBody and htmlBody blocks of the named
// template. Subject and plain body are unescaped since they are not HTML.
func (tp *Templates) Render(name string, data any) (*Email, error) {
	t, ok := tp.set[name]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", name)
	}

	parts := make([]string, len(templateBlocks))
	var buf bytes.Buffer
	for i, block := range templateBlocks {
		buf.Reset()
		if err := t.ExecuteTemplate(&buf, block, data); err != nil {
			return nil, fmt.Errorf("could not render %s of %s: %w", block, name, err)
		}
		parts[i] = buf.String()
	}

	return &Email{
		Subject: strings.TrimSpace(html.UnescapeString(parts[0])),
		Plain:   html.UnescapeString(parts[1]),
		HTML:    parts[2],
	}, nil
}
