package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/diewo77/go-curtains/gate"
	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/validation"
)

const employeesPath = "/settings/employees"

// EmployeeHandler serves staff administration. The acting role comes from
// the request context, where the access gate stored it.
type EmployeeHandler struct {
	employees *services.EmployeeService
}

func NewEmployeeHandler(employees *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	f, page := listFilter(r)
	list, total, err := h.employees.List(r.Context(), gate.RoleFromContext(r.Context()), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listPayload(list, total, f))
		return
	}
	render(w, r, http.StatusOK, "employees/list.html", map[string]any{
		"Employees": list,
		"Roles":     gate.AllRoles(),
		"Query":     f.Query,
		"Page":      page,
		"Total":     total,
	})
}

func (h *EmployeeHandler) New(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, http.StatusOK, services.EmployeeInput{}, nil)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.EmployeeInput
	err := decode(r, &in, func(f url.Values, _ validation.Violations) {
		in = services.EmployeeInput{
			Email:    formString(f, "email"),
			Name:     formString(f, "name"),
			Phone:    formString(f, "phone"),
			Password: f.Get("password"),
			Role:     gate.Role(formString(f, "role")),
		}
	})
	if err == nil {
		u, cerr := h.employees.Provision(r.Context(), gate.RoleFromContext(r.Context()), in)
		if cerr == nil {
			done(w, r, http.StatusCreated, u, employeesPath, "saved")
			return
		}
		err = cerr
	}
	if v := services.ViolationsOf(err); v != nil && !apiClient(r) {
		in.Password = ""
		h.form(w, r, http.StatusUnprocessableEntity, in, v)
		return
	}
	fail(w, r, err)
}

type roleInput struct {
	Role gate.Role `json:"role"`
}

// SetRole replaces an employee's role. An empty role revokes all access.
func (h *EmployeeHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var in roleInput
	err = decode(r, &in, func(f url.Values, _ validation.Violations) {
		in.Role = gate.Role(formString(f, "role"))
	})
	if err == nil {
		err = h.employees.AssignRole(r.Context(), gate.RoleFromContext(r.Context()), id, in.Role)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]any{"id": id, "role": in.Role}, employeesPath, "saved")
}

type activeInput struct {
	Active bool `json:"active"`
}

func (h *EmployeeHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var in activeInput
	err = decode(r, &in, func(f url.Values, v validation.Violations) {
		b, perr := strconv.ParseBool(formString(f, "active"))
		if perr != nil {
			v["active"] = "invalid"
		}
		in.Active = b
	})
	if err == nil {
		err = h.employees.SetActive(r.Context(), gate.RoleFromContext(r.Context()), id, in.Active)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]any{"id": id, "active": in.Active}, employeesPath, "saved")
}

func (h *EmployeeHandler) form(w http.ResponseWriter, r *http.Request, status int, in services.EmployeeInput, errs validation.Violations) {
	render(w, r, status, "employees/form.html", map[string]any{
		"Employee": in,
		"Roles":    gate.AllRoles(),
		"Errors":   errs,
		"Action":   employeesPath,
	})
}
