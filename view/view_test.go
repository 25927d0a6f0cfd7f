package view

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-curtains/i18n"
)

func TestMoney(t *testing.T) {
	d := decimal.RequireFromString("1234567.5")
	neg := decimal.RequireFromString("-950")
	tests := []struct {
		in   any
		want string
	}{
		{d, "1,234,567.50"},
		{&d, "1,234,567.50"},
		{neg, "-950.00"},
		{decimal.Zero, "0.00"},
		{decimal.NullDecimal{}, ""},
		{decimal.NewNullDecimal(decimal.RequireFromString("1.2")), "1.20"},
		{(*decimal.Decimal)(nil), ""},
		{"12", ""},
	}
	for _, tt := range tests {
		if got := Money(tt.in); got != tt.want {
			t.Errorf("Money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToString(t *testing.T) {
	id := uint(7)
	if toString(&id) != "7" || toString((*uint)(nil)) != "" || toString(nil) != "" {
		t.Error("pointer handling")
	}
}

func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"layout.html":         `<html><body>{{template "content" .}}</body></html>`,
		"partials/money.html": `{{define "amount"}}[{{money .}}]{{end}}`,
		"page.html":           `{{define "content"}}{{t "saved"}} {{template "amount" .Amount}}{{if canAccess "/customers"}} nav{{end}} {{role}}{{end}}`,
		"standalone.html":     `<!DOCTYPE html><p>{{lang}}</p>`,
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRenderStatus(t *testing.T) {
	ResetForTests()
	SetBaseDir(writeTemplates(t))
	SetAccessChecker(func(r *http.Request, route string) bool { return route == "/customers" })
	SetRoleResolver(func(*http.Request) string { return "accounting" })
	t.Cleanup(func() {
		SetAccessChecker(nil)
		SetRoleResolver(nil)
		ResetForTests()
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(i18n.WithLang(req.Context(), "en"))
	rr := httptest.NewRecorder()
	if err := RenderStatus(rr, req, http.StatusAccepted, "page.html", map[string]any{"Amount": decimal.NewFromInt(1500)}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if rr.Code != http.StatusAccepted {
		t.Errorf("status = %d", rr.Code)
	}
	want := "<html><body>Saved [1,500.00] nav accounting</body></html>"
	if got := rr.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}

	// cached template, different language
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	if err := Render(rr, req, "page.html", map[string]any{"Amount": decimal.Zero}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rr.Body.String(), "<html><body>"+i18n.T("th", "saved")) {
		t.Errorf("expected Thai text, got %q", rr.Body.String())
	}
}

func TestRender_StandaloneAndMissing(t *testing.T) {
	ResetForTests()
	SetBaseDir(writeTemplates(t))
	t.Cleanup(ResetForTests)

	rr := httptest.NewRecorder()
	if err := Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), "standalone.html", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rr.Body.String(), "<p>th</p>") {
		t.Errorf("body = %q", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	if err := Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), "nope.html", nil); err == nil {
		t.Error("expected error for missing template")
	}
	if rr.Body.Len() != 0 {
		t.Error("nothing should be written on failure")
	}
}
