package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sessionRequest(t *testing.T, uid uint) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	CreateSession(rec, uid)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	uid, ok := ParseSession(sessionRequest(t, 42))
	if !ok || uid != 42 {
		t.Fatalf("ParseSession = %d, %v", uid, ok)
	}
}

func TestParseSessionRejectsTampering(t *testing.T) {
	for _, value := range []string{"", "42", "42.bogus", "0." + sign("0"), "abc." + sign("abc")} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: value})
		if _, ok := ParseSession(req); ok {
			t.Errorf("cookie %q accepted", value)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	t.Cleanup(func() { SetUserVerifier(nil) })
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
		t.Errorf("browser: got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "application/json")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("api: got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, sessionRequest(t, 7))
	if rr.Code != http.StatusNoContent {
		t.Errorf("valid session: got %d", rr.Code)
	}

	SetUserVerifier(func(_ context.Context, uid uint) bool { return uid != 7 })
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, sessionRequest(t, 7))
	if rr.Code != http.StatusSeeOther {
		t.Errorf("rejected user: got %d", rr.Code)
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}
