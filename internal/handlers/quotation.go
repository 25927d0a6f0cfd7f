package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/validation"
)

const quotationsPath = "/projects/quotations"

type QuotationHandler struct {
	quotations *services.QuotationService
	customers  *services.CustomerService
}

func NewQuotationHandler(quotations *services.QuotationService, customers *services.CustomerService) *QuotationHandler {
	return &QuotationHandler{quotations: quotations, customers: customers}
}

func quotationPath(id uint) string { return quotationsPath + "/" + itoa(id) }

func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	lf, page := listFilter(r)
	f := services.QuotationFilter{
		ListFilter: lf,
		Status:     models.QuotationStatus(r.URL.Query().Get("status")),
	}
	v := make(validation.Violations)
	f.CustomerID = formUint(r.URL.Query(), "customer_id", v)
	list, total, err := h.quotations.List(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listPayload(list, total, lf))
		return
	}
	render(w, r, http.StatusOK, "quotations/list.html", map[string]any{
		"Quotations": list,
		"Statuses":   models.QuotationStatuses(),
		"Status":     f.Status,
		"Query":      lf.Query,
		"Page":       page,
		"Total":      total,
	})
}

func (h *QuotationHandler) New(w http.ResponseWriter, r *http.Request) {
	in := services.QuotationInput{}
	v := make(validation.Violations)
	in.CustomerID = formUint(r.URL.Query(), "customer_id", v)
	h.form(w, r, http.StatusOK, 0, in, nil)
}

func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeQuotation(r)
	if err == nil {
		uid, _ := auth.UserIDFromContext(r.Context())
		q, cerr := h.quotations.Create(r.Context(), uid, in)
		if cerr == nil {
			done(w, r, http.StatusCreated, q, quotationPath(q.ID), "saved")
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

func (h *QuotationHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	h.show(w, r, http.StatusOK, id, services.ItemInput{}, nil)
}

func (h *QuotationHandler) show(w http.ResponseWriter, r *http.Request, status int, id uint, item services.ItemInput, errs validation.Violations) {
	q, err := h.quotations.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, status, q)
		return
	}
	render(w, r, status, "quotations/view.html", map[string]any{
		"Quotation": q,
		"Statuses":  models.QuotationStatuses(),
		"Item":      item,
		"Errors":    errs,
	})
}

func (h *QuotationHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	q, err := h.quotations.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.form(w, r, http.StatusOK, id, services.QuotationInput{
		CustomerID: q.CustomerID,
		Title:      q.Title,
		Notes:      q.Notes,
		ValidUntil: q.ValidUntil,
	}, nil)
}

func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	in, err := decodeQuotation(r)
	if err == nil {
		q, uerr := h.quotations.Update(r.Context(), id, in)
		if uerr == nil {
			done(w, r, http.StatusOK, q, quotationPath(id), "saved")
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

func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.quotations.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]uint{"deleted": id}, quotationsPath, "deleted")
}

// AddItem adds a line and answers with the new item and the updated totals.
func (h *QuotationHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var in services.ItemInput
	err = decode(r, &in, func(f url.Values, v validation.Violations) {
		in = services.ItemInput{
			ProductName: formString(f, "product_name"),
			Description: formString(f, "description"),
			Width:       formDecimalPtr(f, "width", v),
			Height:      formDecimalPtr(f, "height", v),
			Quantity:    formDecimal(f, "quantity", v),
			UnitPrice:   formDecimal(f, "unit_price", v),
		}
	})
	if err == nil {
		item, aerr := h.quotations.AddItem(r.Context(), id, in)
		if aerr == nil {
			h.itemDone(w, r, http.StatusCreated, id, item)
			return
		}
		err = aerr
	}
	if v := services.ViolationsOf(err); v != nil && !apiClient(r) {
		h.show(w, r, http.StatusUnprocessableEntity, id, in, v)
		return
	}
	fail(w, r, err)
}

func (h *QuotationHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.quotations.RemoveItem(r.Context(), id, itemID); err != nil {
		fail(w, r, err)
		return
	}
	h.itemDone(w, r, http.StatusOK, id, nil)
}

func (h *QuotationHandler) itemDone(w http.ResponseWriter, r *http.Request, status int, id uint, item *models.QuotationItem) {
	if !apiClient(r) {
		done(w, r, status, nil, quotationPath(id), "saved")
		return
	}
	q, err := h.quotations.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	payload := map[string]any{
		"total_amount": q.TotalAmount,
		"grand_total":  q.GrandTotal,
	}
	if item != nil {
		payload["item"] = item
	}
	httpx.JSON(w, status, payload)
}

// Recalculate recomputes the stored totals on demand.
func (h *QuotationHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	totals, err := h.quotations.RecalculateTotals(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, totals, quotationPath(id), "saved")
}

func (h *QuotationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	s, err := decodeStatus(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.quotations.SetStatus(r.Context(), id, models.QuotationStatus(s)); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]string{"status": s}, quotationPath(id), "saved")
}

func (h *QuotationHandler) form(w http.ResponseWriter, r *http.Request, status int, id uint, in services.QuotationInput, errs validation.Violations) {
	customers, _, err := h.customers.List(r.Context(), services.ListFilter{Limit: 200})
	if err != nil {
		fail(w, r, err)
		return
	}
	action := quotationsPath
	if id != 0 {
		action = quotationPath(id)
	}
	render(w, r, status, "quotations/form.html", map[string]any{
		"ID":        id,
		"Quotation": in,
		"Customers": customers,
		"Errors":    errs,
		"Action":    action,
	})
}

func decodeQuotation(r *http.Request) (services.QuotationInput, error) {
	var in services.QuotationInput
	err := decode(r, &in, func(f url.Values, v validation.Violations) {
		in = services.QuotationInput{
			CustomerID: formUint(f, "customer_id", v),
			Title:      formString(f, "title"),
			Notes:      formString(f, "notes"),
			ValidUntil: formTime(f, "valid_until", v),
		}
	})
	return in, err
}

type statusInput struct {
	Status string `json:"status"`
}

// decodeStatus reads the target status of a status change request.
func decodeStatus(r *http.Request) (string, error) {
	var in statusInput
	err := decode(r, &in, func(f url.Values, _ validation.Violations) {
		in.Status = formString(f, "status")
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return "", services.ErrInvalidStatus
		}
		return "", err
	}
	return in.Status, nil
}
