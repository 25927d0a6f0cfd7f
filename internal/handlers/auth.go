package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/i18n"
	"github.com/diewo77/go-curtains/internal/logging"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/validation"
)

// AuthHandler serves the login and logout endpoints.
type AuthHandler struct {
	employees *services.EmployeeService
}

func NewAuthHandler(employees *services.EmployeeService) *AuthHandler {
	return &AuthHandler{employees: employees}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login shows the form on GET and checks credentials on POST.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if _, ok := auth.UserIDFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		render(w, r, http.StatusOK, "login.html", nil)
		return
	}

	var in loginInput
	if err := decode(r, &in, func(f url.Values, _ validation.Violations) {
		in.Email = formString(f, "email")
		in.Password = f.Get("password")
	}); err != nil {
		fail(w, r, err)
		return
	}

	u, err := h.employees.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			fail(w, r, err)
			return
		}
		logging.FromContext(r.Context()).WithField("email", in.Email).Info("login failed")
		if apiClient(r) {
			httpx.JSONError(w, http.StatusUnauthorized, "login_failed", nil)
			return
		}
		render(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Email": in.Email,
			"Error": i18n.T(i18n.LangFromContext(r.Context()), "login_failed"),
		})
		return
	}

	auth.CreateSession(w, u.ID)
	logging.FromContext(r.Context()).WithField("user_id", u.ID).Info("login")
	done(w, r, http.StatusOK, u, "/dashboard", "")
}

// Logout clears the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	done(w, r, http.StatusOK, map[string]bool{"ok": true}, "/login", "")
}
