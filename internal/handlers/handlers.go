// Package handlers holds the HTTP handlers. Every read endpoint answers HTML
// or JSON depending on the Accept header, and every mutating endpoint accepts
// either an HTML form or a JSON body.
package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/i18n"
	"github.com/diewo77/go-curtains/internal/logging"
	"github.com/diewo77/go-curtains/internal/middleware"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/validation"
	"github.com/diewo77/go-curtains/view"
)

const dateLayout = "2006-01-02"

// apiClient reports whether the response should be JSON.
func apiClient(r *http.Request) bool {
	return httpx.WantsJSON(r) || httpx.IsJSONBody(r)
}

// classify maps an error to a status code and a message code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity, "invalid"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrNotEditable):
		return http.StatusConflict, "not_editable"
	case errors.Is(err, services.ErrLastAdmin):
		return http.StatusConflict, "last_admin"
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, services.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid_status"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "access_denied"
	}
	return http.StatusInternalServerError, "generic_failure"
}

// fail writes the response for err. Only server-side failures are logged;
// the user sees a short static message.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).WithError(err).Error("request failed")
	}
	if apiClient(r) {
		var details any
		if v := services.ViolationsOf(err); v != nil {
			details = v
		}
		httpx.JSONError(w, status, code, details)
		return
	}
	RenderError(w, r, status, code)
}

// RenderError shows the generic error page with a localized message.
func RenderError(w http.ResponseWriter, r *http.Request, status int, code string) {
	msg := i18n.T(i18n.LangFromContext(r.Context()), code)
	if err := view.RenderStatus(w, r, status, "error.html", map[string]any{"Status": status, "Message": msg}); err != nil {
		logging.FromContext(r.Context()).WithError(err).Warn("render error page")
		http.Error(w, msg, status)
	}
}

// render executes a template and falls back to a 500 page if it fails.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = middleware.TakeFlash(w, r)
	}
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		logging.FromContext(r.Context()).WithError(err).WithField("template", name).Error("render template")
		http.Error(w, i18n.T(i18n.LangFromContext(r.Context()), "generic_failure"), http.StatusInternalServerError)
	}
}

// done answers a successful mutation: JSON payload for API clients, a flash
// message and a redirect for browsers.
func done(w http.ResponseWriter, r *http.Request, status int, payload any, location, flash string) {
	if apiClient(r) {
		httpx.JSON(w, status, payload)
		return
	}
	if flash != "" {
		middleware.Flash(w, r, flash)
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// pathID reads a numeric path parameter.
func pathID(r *http.Request, name string) (uint, error) {
	n, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || n == 0 {
		return 0, services.ErrNotFound
	}
	return uint(n), nil
}

// listFilter reads q, page and limit from the query string.
func listFilter(r *http.Request) (services.ListFilter, int) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 25
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	return services.ListFilter{
		Query:  strings.TrimSpace(q.Get("q")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, page
}

func listPayload(items any, total int64, f services.ListFilter) map[string]any {
	return map[string]any{"items": items, "total": total, "limit": f.Limit, "offset": f.Offset}
}

// decode fills dst from a JSON body, or from the posted form through fromForm.
// Form conversion problems are reported as field violations.
func decode(r *http.Request, dst any, fromForm func(url.Values, validation.Violations)) error {
	if httpx.IsJSONBody(r) {
		if err := httpx.DecodeJSON(r, dst); err != nil {
			return &services.ValidationError{Violations: validation.Violations{"_": "invalid"}}
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return &services.ValidationError{Violations: validation.Violations{"_": "invalid"}}
	}
	v := make(validation.Violations)
	fromForm(r.PostForm, v)
	if !v.Empty() {
		return &services.ValidationError{Violations: v}
	}
	return nil
}

// Form value converters. An empty value yields the zero value without a violation.

func formDecimal(f url.Values, field string, v validation.Violations) decimal.Decimal {
	s := strings.TrimSpace(strings.ReplaceAll(f.Get(field), ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		v[field] = "invalid"
		return decimal.Zero
	}
	return d
}

func formDecimalPtr(f url.Values, field string, v validation.Violations) *decimal.Decimal {
	if strings.TrimSpace(f.Get(field)) == "" {
		return nil
	}
	d := formDecimal(f, field, v)
	return &d
}

func formUint(f url.Values, field string, v validation.Violations) uint {
	s := strings.TrimSpace(f.Get(field))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		v[field] = "invalid"
		return 0
	}
	return uint(n)
}

func formUintPtr(f url.Values, field string, v validation.Violations) *uint {
	n := formUint(f, field, v)
	if n == 0 {
		return nil
	}
	return &n
}

func formTime(f url.Values, field string, v validation.Violations) *time.Time {
	s := strings.TrimSpace(f.Get(field))
	if s == "" {
		return nil
	}
	for _, layout := range []string{dateLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	v[field] = "invalid"
	return nil
}

func formString(f url.Values, field string) string {
	return strings.TrimSpace(f.Get(field))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
