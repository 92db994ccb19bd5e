package history

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode/utf8"

	"gxkit/internal/config"
	apperrors "gxkit/internal/errors"
)

//go:embed templates/version_history.rst.tmpl
var templateFS embed.FS

const embeddedTemplate = "templates/version_history.rst.tmpl"

var templateFuncs = template.FuncMap{
	"underline": func(s, ch string) string {
		return strings.Repeat(ch, utf8.RuneCountInString(s))
	},
}

// Renderer renders the version-history page
type Renderer struct {
	tmpl   *template.Template
	source string
}

// NewRenderer loads the page template from templateDir when it holds one,
// otherwise the built-in template is used.
func NewRenderer(templateDir string) (*Renderer, error) {
	if templateDir != "" {
		path := filepath.Join(templateDir, config.HistoryTemplateName)
		if data, err := os.ReadFile(path); err == nil {
			tmpl, err := template.New(config.HistoryTemplateName).Funcs(templateFuncs).Parse(string(data))
			if err != nil {
				return nil, apperrors.NewParsingError(fmt.Sprintf("invalid template %s", path), err)
			}
			return &Renderer{tmpl: tmpl, source: path}, nil
		} else if !os.IsNotExist(err) {
			return nil, apperrors.NewResourceError(fmt.Sprintf("failed to read template %s", path), err)
		}
	}

	tmpl, err := template.New(filepath.Base(embeddedTemplate)).Funcs(templateFuncs).ParseFS(templateFS, embeddedTemplate)
	if err != nil {
		return nil, apperrors.NewParsingError("invalid built-in template", err)
	}
	return &Renderer{tmpl: tmpl, source: "builtin"}, nil
}

// Source names where the template came from: a file path or "builtin"
func (r *Renderer) Source() string { return r.source }

// Render writes the page for the given package histories
func (r *Renderer) Render(w io.Writer, pages []PackageHistory) error {
	data := struct {
		Packages []PackageHistory
	}{Packages: pages}

	if err := r.tmpl.Execute(w, data); err != nil {
		return apperrors.NewStorageError("failed to render version history", err)
	}
	return nil
}
