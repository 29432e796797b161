package polls

import (
	"bytes"
	"testing"
	"testing/fstest"

	qt "github.com/frankban/quicktest"
)

func TestTemplateRenderer(t *testing.T) {
	c := qt.New(t)

	c.Run("embedded templates", func(c *qt.C) {
		r, err := NewTemplateRenderer(nil)
		c.Assert(err, qt.IsNil)

		buf := &bytes.Buffer{}
		err = r.Render(buf, indexTemplate, map[string]interface{}{"Flashes": []interface{}{"hello"}})
		c.Assert(err, qt.IsNil)
		c.Assert(buf.String(), qt.Contains, `<div class="flash">hello</div>`)
	})

	c.Run("unknown template", func(c *qt.C) {
		r, err := NewTemplateRenderer(nil)
		c.Assert(err, qt.IsNil)

		err = r.Render(&bytes.Buffer{}, "admin.html", nil)
		c.Assert(err, qt.ErrorMatches, `unknown template "admin.html"`)
	})

	c.Run("missing page", func(c *qt.C) {
		fsys := fstest.MapFS{
			"assets/templates/_header.html": {Data: []byte(`{{define "header"}}{{end}}`)},
			"assets/templates/_footer.html": {Data: []byte(`{{define "footer"}}{{end}}`)},
		}

		_, err := NewTemplateRenderer(fsys)
		c.Assert(err, qt.ErrorMatches, `parse template index.html: .*`)
	})
}
