// Package templates holds the embedded HTML pages and static assets.
// Each page defines a "content" block rendered inside base.html.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
)

//go:embed base.html pages/*.html
var pageFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = []string{
	"login.html",
	"signup.html",
	"verify.html",
	"dashboard.html",
	"note_form.html",
	"note_view.html",
	"profile.html",
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	// Query helpers take the current query values so links keep search and
	// sort while changing one parameter. Changing a filter resets paging.
	"addQueryParam": func(q url.Values, key, value string) string {
		c := cloneQuery(q)
		c.Set(key, value)
		c.Del("page")
		return "?" + c.Encode()
	},
	"addPageParam": func(q url.Values, page int) string {
		c := cloneQuery(q)
		c.Set("page", strconv.Itoa(page))
		return "?" + c.Encode()
	},
}

func cloneQuery(q url.Values) url.Values {
	c := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			c.Add(k, v)
		}
	}
	return c
}

// Registry is the parsed template set, one entry per page, each paired with
// the shared layout.
type Registry struct {
	set map[string]*template.Template
}

// Parse builds the registry. Called once at startup; a broken template is a
// deploy-time failure, not a per-request one.
func Parse() (*Registry, error) {
	set := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(pageFS, "base.html", "pages/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		set[page] = t
	}
	return &Registry{set: set}, nil
}

// Render writes a page into the layout.
func (r *Registry) Render(w io.Writer, page string, data interface{}) error {
	t, ok := r.set[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "base.html", data)
}

// Static exposes the embedded assets for http.FileServer.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embed layout is fixed at compile time
	}
	return http.FS(sub)
}
