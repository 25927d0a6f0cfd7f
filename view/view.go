// Package view renders the HTML templates under templates/ with a shared
// layout and a per-request func map (translations, access checks, money).
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/i18n"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	mu            sync.RWMutex
	devMode       bool
	langResolver  = func(r *http.Request) string { return i18n.LangFromContext(r.Context()) }
	accessChecker func(*http.Request, string) bool
	roleResolver  func(*http.Request) string
)

// SetDev disables the template cache so edits show up on reload.
func SetDev(dev bool) {
	mu.Lock()
	devMode = dev
	mu.Unlock()
}

// SetLangResolver allows the host app to provide a custom language resolver.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		mu.Lock()
		langResolver = f
		mu.Unlock()
	}
}

// SetAccessChecker sets the callback behind the canAccess template func.
// The host app wires it to its route gate so the view stays free of policy types.
func SetAccessChecker(f func(r *http.Request, route string) bool) {
	mu.Lock()
	accessChecker = f
	mu.Unlock()
}

// SetRoleResolver sets the callback behind the role template func.
func SetRoleResolver(f func(r *http.Request) string) {
	mu.Lock()
	roleResolver = f
	mu.Unlock()
}

// layoutBase walks upward from a template path to find the directory that contains layout.html.
// If none is found, it returns the template's own directory.
func layoutBase(mainPath string) string {
	d := filepath.Dir(mainPath)
	for {
		lp := filepath.Join(d, "layout.html")
		if fi, err := os.Stat(lp); err == nil && !fi.IsDir() {
			return d
		}
		p := filepath.Dir(d)
		if p == d {
			return filepath.Dir(mainPath)
		}
		d = p
	}
}

func detectBase() {
	for _, c := range []string{"templates", "../templates", "../../templates"} {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the func map bound to r.
func Funcs(r *http.Request) template.FuncMap {
	mu.RLock()
	lang := langResolver(r)
	check := accessChecker
	roleOf := roleResolver
	mu.RUnlock()
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		// canAccess reports whether the current user may open route.
		"canAccess": func(route string) bool {
			if check == nil {
				return false
			}
			return check(r, route)
		},
		"role": func() string {
			if roleOf == nil {
				return ""
			}
			return roleOf(r)
		},
		"status": func(s any) string { return i18n.T(lang, "status_"+toString(s)) },
		"money":  Money,
		"year":   func() int { return time.Now().Year() },
		"date": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("2006-01-02")
			case *time.Time:
				if v != nil {
					return v.Format("2006-01-02")
				}
			}
			return ""
		},
		"datetime": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02T15:04")
		},
		// same compares two values by their printed form, so a *uint field
		// can be matched against a uint option.
		"same": func(a, b any) bool { return toString(a) == toString(b) },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// toString renders v for comparison and lookup. Pointers are followed; a
// nil pointer is the empty string.
func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

// Money formats an amount with two decimals and thousands separators.
func Money(v any) string {
	var d decimal.Decimal
	switch n := v.(type) {
	case decimal.Decimal:
		d = n
	case *decimal.Decimal:
		if n == nil {
			return ""
		}
		d = *n
	case decimal.NullDecimal:
		if !n.Valid {
			return ""
		}
		d = n.Decimal
	default:
		return ""
	}
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// SetBaseDir overrides the template base directory (useful for tests or custom setups).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
}

// parse loads name with the layout and partials. The returned template is
// never executed directly; Render clones it and binds the request funcs.
func parse(name string) (*template.Template, error) {
	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		found := false
		for _, c := range []string{"templates", "../templates", "../../templates", "../../../templates"} {
			p := filepath.Join(c, name)
			if fi, e2 := os.Stat(p); e2 == nil && !fi.IsDir() {
				mainPath, found = p, true
				break
			}
		}
		if !found {
			return nil, err
		}
	}
	base := layoutBase(mainPath)
	files := []string{mainPath}
	content, _ := os.ReadFile(mainPath)
	root := filepath.Base(mainPath)
	if !bytes.Contains(bytes.ToLower(content), []byte("<!doctype")) {
		layoutPath := filepath.Join(base, "layout.html")
		if fi, err := os.Stat(layoutPath); err == nil && !fi.IsDir() {
			files = append([]string{layoutPath}, files...)
			root = "layout.html"
		}
		partials, _ := filepath.Glob(filepath.Join(base, "partials", "*.html"))
		files = append(files, partials...)
	}
	// Placeholder funcs so parsing succeeds; real ones are bound per request.
	return template.New(root).Funcs(Funcs(&http.Request{})).ParseFiles(files...)
}

// Render parses (or reuses) a template and executes it with the request's funcs.
// name should be the path below templates/ (e.g., "quotations/view.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code. Nothing is written
// when the template fails, so the caller can still send an error response.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	if baseDir == "" {
		once.Do(detectBase)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}

	mu.RLock()
	dev := devMode
	mu.RUnlock()

	var t *template.Template
	if !dev {
		tplCache.RLock()
		t = tplCache.m[name]
		tplCache.RUnlock()
	}
	if t == nil {
		parsed, err := parse(name)
		if err != nil {
			return err
		}
		t = parsed
		if !dev {
			tplCache.Lock()
			tplCache.m[name] = t
			tplCache.Unlock()
		}
	}

	clone, err := t.Clone()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := clone.Funcs(Funcs(r)).Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
