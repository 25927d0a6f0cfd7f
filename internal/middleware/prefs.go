package middleware

import (
	"net/http"
	"net/url"

	"github.com/diewo77/go-curtains/i18n"
)

// Prefs extracts the language preference (query > cookie > Accept-Language)
// and stores it in the context. A query-provided language is persisted in a
// cookie for ~30 days.
func Prefs(defaultLang string) func(http.Handler) http.Handler {
	if !i18n.Supported(defaultLang) {
		defaultLang = i18n.DefaultLang
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if c, err := r.Cookie("lang"); err == nil {
				lang = c.Value
			}
			if ql := r.URL.Query().Get("lang"); ql != "" && i18n.Supported(ql) {
				lang = ql
				http.SetCookie(w, &http.Cookie{Name: "lang", Value: lang, Path: "/", MaxAge: 86400 * 30, HttpOnly: true})
			}
			if !i18n.Supported(lang) {
				if h := r.Header.Get("Accept-Language"); h != "" {
					lang = i18n.DetectLanguage(h)
				} else {
					lang = defaultLang
				}
			}
			next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
		})
	}
}

// Flash sets a translated flash message cookie using translation code (or literal if missing).
func Flash(w http.ResponseWriter, r *http.Request, code string) {
	msg := i18n.T(i18n.LangFromContext(r.Context()), code)
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: url.QueryEscape(msg), Path: "/"})
}

// TakeFlash reads and clears the flash cookie.
func TakeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie("flash")
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
