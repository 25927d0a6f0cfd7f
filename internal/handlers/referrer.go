package handlers

import (
	"net/http"
	"net/url"

	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/validation"
)

const referrersPath = "/marketing/referrers"

type ReferrerHandler struct {
	referrers *services.ReferrerService
}

func NewReferrerHandler(referrers *services.ReferrerService) *ReferrerHandler {
	return &ReferrerHandler{referrers: referrers}
}

func (h *ReferrerHandler) List(w http.ResponseWriter, r *http.Request) {
	f, page := listFilter(r)
	list, total, err := h.referrers.List(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listPayload(list, total, f))
		return
	}
	render(w, r, http.StatusOK, "referrers/list.html", map[string]any{
		"Referrers": list,
		"Query":     f.Query,
		"Page":      page,
		"Total":     total,
	})
}

func (h *ReferrerHandler) New(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, http.StatusOK, 0, services.ReferrerInput{}, nil)
}

func (h *ReferrerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeReferrer(r)
	if err == nil {
		ref, cerr := h.referrers.Create(r.Context(), in)
		if cerr == nil {
			done(w, r, http.StatusCreated, ref, referrersPath+"/"+itoa(ref.ID), "saved")
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

func (h *ReferrerHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	ref, err := h.referrers.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, ref)
		return
	}
	render(w, r, http.StatusOK, "referrers/view.html", map[string]any{"Referrer": ref})
}

func (h *ReferrerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	ref, err := h.referrers.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.form(w, r, http.StatusOK, id, services.ReferrerInput{
		Name:           ref.Name,
		Phone:          ref.Phone,
		Email:          ref.Email,
		CommissionRate: ref.CommissionRate,
		Notes:          ref.Notes,
	}, nil)
}

func (h *ReferrerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	in, err := decodeReferrer(r)
	if err == nil {
		ref, uerr := h.referrers.Update(r.Context(), id, in)
		if uerr == nil {
			done(w, r, http.StatusOK, ref, referrersPath+"/"+itoa(id), "saved")
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

func (h *ReferrerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.referrers.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]uint{"deleted": id}, referrersPath, "deleted")
}

func (h *ReferrerHandler) form(w http.ResponseWriter, r *http.Request, status int, id uint, in services.ReferrerInput, errs validation.Violations) {
	action := referrersPath
	if id != 0 {
		action = referrersPath + "/" + itoa(id)
	}
	render(w, r, status, "referrers/form.html", map[string]any{
		"ID":       id,
		"Referrer": in,
		"Errors":   errs,
		"Action":   action,
	})
}

// decodeReferrer accepts the commission rate as a fraction in JSON bodies and
// as a percentage in forms.
func decodeReferrer(r *http.Request) (services.ReferrerInput, error) {
	var in services.ReferrerInput
	err := decode(r, &in, func(f url.Values, v validation.Violations) {
		in = services.ReferrerInput{
			Name:           formString(f, "name"),
			Phone:          formString(f, "phone"),
			Email:          formString(f, "email"),
			CommissionRate: formDecimal(f, "commission_percent", v).Shift(-2),
			Notes:          formString(f, "notes"),
		}
	})
	return in, err
}
