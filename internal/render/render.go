package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valyala/bytebufferpool"
)

//go:embed templates/mail/*.html
var embedFS embed.FS

// Renderer executes HTML templates. Templates found in the override
// directory take precedence over the embedded ones.
type Renderer struct {
	embedded    *template.Template
	templateDir string
	globalVars  map[string]interface{}
}

// parseEmbedded names templates by their path relative to templates/,
// e.g. "mail/participant-welcome.html".
func parseEmbedded() (*template.Template, error) {
	t := template.New("")
	err := fs.WalkDir(embedFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		content, err := embedFS.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = t.New(strings.TrimPrefix(path, "templates/")).Parse(string(content))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}
	return t, nil
}

func (r *Renderer) mergeVars(vars map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(r.globalVars)+len(vars))
	for k, v := range r.globalVars {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return merged
}

func (r *Renderer) renderFromDir(buf *bytebufferpool.ByteBuffer, name string, vars map[string]interface{}) bool {
	filePath := filepath.Join(r.templateDir, name)
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return false
	}
	t, err := template.New(name).Parse(string(contents))
	if err == nil {
		err = t.ExecuteTemplate(buf, name, vars)
	}
	if err != nil {
		slog.Warn("Render template failed, falling back to embedded", "path", filePath, "error", err)
		buf.Reset()
		return false
	}
	return true
}

func (r *Renderer) RenderHTML(templateName string, vars map[string]interface{}) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if !strings.HasSuffix(templateName, ".html") {
		templateName += ".html"
	}
	merged := r.mergeVars(vars)

	if r.templateDir != "" && r.renderFromDir(buf, templateName, merged) {
		return buf.String(), nil
	}
	if err := r.embedded.ExecuteTemplate(buf, templateName, merged); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func New(globalVars map[string]interface{}, templateDir string) (*Renderer, error) {
	if templateDir != "" {
		info, err := os.Stat(templateDir)
		if err != nil {
			return nil, fmt.Errorf("template directory does not exist: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template path is not a directory: %s", templateDir)
		}
	}
	embedded, err := parseEmbedded()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		embedded:    embedded,
		templateDir: templateDir,
		globalVars:  globalVars,
	}, nil
}
