package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const welcomeTemplate = "mail/participant-welcome"

func welcomeVars() map[string]interface{} {
	return map[string]interface{}{
		"name":         "Alice",
		"uid":          "P001",
		"hostelName":   "Aryabhatta",
		"wifiUsername": "alice-wifi",
		"wifiPassword": "s3cret",
	}
}

func TestRenderHTML_EmbeddedOnly(t *testing.T) {
	r, err := New(map[string]interface{}{"siteName": "Kontest"}, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := r.RenderHTML(welcomeTemplate, welcomeVars())
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	for _, want := range []string{"Welcome to Kontest, Alice!", "P001", "alice-wifi"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "View on map") {
		t.Errorf("location row must be omitted without hostelLocation")
	}
}

func TestRenderHTML_EscapesValues(t *testing.T) {
	r, err := New(nil, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	vars := welcomeVars()
	vars["name"] = "<script>alert(1)</script>"
	out, err := r.RenderHTML(welcomeTemplate, vars)
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("expected name to be escaped")
	}
}

func TestRenderHTML_DirOverridesEmbedded(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "mail"), 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}
	content := "OVERRIDE {{ .name }}"
	path := filepath.Join(tmpDir, "mail", "participant-welcome.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp template: %v", err)
	}

	r, err := New(nil, tmpDir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	out, err := r.RenderHTML(welcomeTemplate, welcomeVars())
	if err != nil {
		t.Fatalf("RenderHTML returned error: %v", err)
	}
	if out != "OVERRIDE Alice" {
		t.Fatalf("expected overridden content, got %q", out)
	}
}

func TestRenderHTML_FallbackOnDiskFailure(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "mail"), 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}
	broken := "{{ ."
	if err := os.WriteFile(filepath.Join(tmpDir, "mail", "participant-welcome.html"), []byte(broken), 0o644); err != nil {
		t.Fatalf("failed to write broken temp template: %v", err)
	}

	r, err := New(nil, tmpDir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	out, err := r.RenderHTML(welcomeTemplate, welcomeVars())
	if err != nil {
		t.Fatalf("RenderHTML should have fallen back to embedded template, got error: %v", err)
	}
	if !strings.Contains(out, "Aryabhatta") {
		t.Fatalf("expected embedded output, got %q", out)
	}
}

func TestNew_MissingDir(t *testing.T) {
	if _, err := New(nil, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing template directory")
	}
}
