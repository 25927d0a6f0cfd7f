package handlers

import (
	"net/http"
	"net/url"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/validation"
)

const customersPath = "/customers"

type CustomerHandler struct {
	customers *services.CustomerService
	referrers *services.ReferrerService
}

func NewCustomerHandler(customers *services.CustomerService, referrers *services.ReferrerService) *CustomerHandler {
	return &CustomerHandler{customers: customers, referrers: referrers}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	f, page := listFilter(r)
	list, total, err := h.customers.List(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listPayload(list, total, f))
		return
	}
	render(w, r, http.StatusOK, "customers/list.html", map[string]any{
		"Customers": list,
		"Query":     f.Query,
		"Page":      page,
		"Total":     total,
	})
}

func (h *CustomerHandler) New(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, http.StatusOK, 0, services.CustomerInput{}, nil)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCustomer(r)
	if err == nil {
		uid, _ := auth.UserIDFromContext(r.Context())
		c, cerr := h.customers.Create(r.Context(), uid, in)
		if cerr == nil {
			done(w, r, http.StatusCreated, c, customersPath+"/"+itoa(c.ID), "saved")
			return
		}
		err = cerr
	}
	if v := services.ViolationsOf(err); v != nil && !apiClient(r) {
		h.form(w, r, http.StatusUnprocessableEntity, 0, in, v)
		return
	}
	fail(w, r, err)
}

func (h *CustomerHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, c)
		return
	}
	render(w, r, http.StatusOK, "customers/view.html", map[string]any{"Customer": c})
}

func (h *CustomerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.form(w, r, http.StatusOK, id, services.CustomerInput{
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		LineID:     c.LineID,
		Address:    c.Address,
		District:   c.District,
		Province:   c.Province,
		Notes:      c.Notes,
		ReferrerID: c.ReferrerID,
	}, nil)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	in, err := decodeCustomer(r)
	if err == nil {
		c, uerr := h.customers.Update(r.Context(), id, in)
		if uerr == nil {
			done(w, r, http.StatusOK, c, customersPath+"/"+itoa(id), "saved")
			return
		}
		err = uerr
	}
	if v := services.ViolationsOf(err); v != nil && !apiClient(r) {
		h.form(w, r, http.StatusUnprocessableEntity, id, in, v)
		return
	}
	fail(w, r, err)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]uint{"deleted": id}, customersPath, "deleted")
}

func (h *CustomerHandler) form(w http.ResponseWriter, r *http.Request, status int, id uint, in services.CustomerInput, errs validation.Violations) {
	refs, _, err := h.referrers.List(r.Context(), services.ListFilter{Limit: 200})
	if err != nil {
		fail(w, r, err)
		return
	}
	action := customersPath
	if id != 0 {
		action = customersPath + "/" + itoa(id)
	}
	render(w, r, status, "customers/form.html", map[string]any{
		"ID":        id,
		"Customer":  in,
		"Referrers": refs,
		"Errors":    errs,
		"Action":    action,
	})
}

func decodeCustomer(r *http.Request) (services.CustomerInput, error) {
	var in services.CustomerInput
	err := decode(r, &in, func(f url.Values, v validation.Violations) {
		in = services.CustomerInput{
			Name:       formString(f, "name"),
			Phone:      formString(f, "phone"),
			Email:      formString(f, "email"),
			LineID:     formString(f, "line_id"),
			Address:    formString(f, "address"),
			District:   formString(f, "district"),
			Province:   formString(f, "province"),
			Notes:      formString(f, "notes"),
			ReferrerID: formUintPtr(f, "referrer_id", v),
		}
	})
	return in, err
}
