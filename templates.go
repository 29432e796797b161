package polls

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed assets/templates/*.html
var embeddedTemplates embed.FS

const (
	indexTemplate   = "index.html"
	detailTemplate  = "detail.html"
	resultsTemplate = "results.html"
)

// A Renderer renders a named page template with the given variables.
type Renderer interface {
	Render(w io.Writer, name string, vars map[string]interface{}) error
}

// TemplateRenderer renders the html templates found under assets/templates, each page being
// parsed along with the shared header and footer.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer parses every page from fsys. A nil fsys means the templates embedded in
// the binary.
func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	if fsys == nil {
		fsys = embeddedTemplates
	}

	r := &TemplateRenderer{templates: map[string]*template.Template{}}
	for _, name := range []string{indexTemplate, detailTemplate, resultsTemplate} {
		tmpl, err := template.New(name).Funcs(helpers).ParseFS(fsys,
			"assets/templates/"+name,
			"assets/templates/_header.html",
			"assets/templates/_footer.html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, vars map[string]interface{}) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	return tmpl.Execute(w, vars)
}
