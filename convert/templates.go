package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"wpparser/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Tagline    string
	Language   string
	BlogURL    string
	Creators   []string
	Format     string
	SourceFile string
}

func orEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func expandTemplate(e *Export, name config.TemplateFieldName, field string, format config.OutputFmt) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	blog := e.Record.Blog
	values := Values{
		Context:    string(name),
		Title:      orEmpty(blog.Title),
		Tagline:    orEmpty(blog.Tagline),
		Language:   orEmpty(blog.Language),
		BlogURL:    orEmpty(blog.BlogURL),
		Creators:   e.Creators(),
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(e.SrcName), filepath.Ext(e.SrcName)),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
