package handlers

import (
	"net/http"
	"net/url"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/validation"
)

const documentsPath = "/accounting/documents"

type DocumentHandler struct {
	documents *services.AccountingService
	customers *services.CustomerService
}

func NewDocumentHandler(documents *services.AccountingService, customers *services.CustomerService) *DocumentHandler {
	return &DocumentHandler{documents: documents, customers: customers}
}

func documentPath(id uint) string { return documentsPath + "/" + itoa(id) }

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	lf, page := listFilter(r)
	q := r.URL.Query()
	f := services.DocumentFilter{
		ListFilter: lf,
		Type:       models.DocumentType(q.Get("type")),
		Status:     models.DocumentStatus(q.Get("status")),
	}
	list, total, err := h.documents.List(r.Context(), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listPayload(list, total, lf))
		return
	}
	render(w, r, http.StatusOK, "documents/list.html", map[string]any{
		"Documents": list,
		"Types":     models.DocumentTypes(),
		"Statuses":  models.DocumentStatuses(),
		"Type":      f.Type,
		"Status":    f.Status,
		"Query":     lf.Query,
		"Page":      page,
		"Total":     total,
	})
}

func (h *DocumentHandler) New(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := make(validation.Violations)
	in := services.DocumentInput{
		Type:        models.DocumentType(q.Get("type")),
		QuotationID: formUintPtr(q, "quotation_id", v),
	}
	if !in.Type.Valid() {
		in.Type = models.DocumentTypeInvoice
	}
	h.form(w, r, http.StatusOK, 0, in, nil)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeDocument(r)
	if err == nil {
		uid, _ := auth.UserIDFromContext(r.Context())
		doc, cerr := h.documents.Create(r.Context(), uid, in)
		if cerr == nil {
			done(w, r, http.StatusCreated, doc, documentPath(doc.ID), "saved")
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

func (h *DocumentHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	h.show(w, r, http.StatusOK, id, nil)
}

func (h *DocumentHandler) show(w http.ResponseWriter, r *http.Request, status int, id uint, errs validation.Violations) {
	doc, err := h.documents.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, status, doc)
		return
	}
	customers, _, err := h.customers.List(r.Context(), services.ListFilter{Limit: 200})
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, status, "documents/view.html", map[string]any{
		"Document":  doc,
		"Customers": customers,
		"Statuses":  models.DocumentStatuses(),
		"Errors":    errs,
	})
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	in, err := decodeDocument(r)
	if err == nil {
		doc, uerr := h.documents.Update(r.Context(), id, in)
		if uerr == nil {
			done(w, r, http.StatusOK, doc, documentPath(id), "saved")
			return
		}
		err = uerr
	}
	if v := services.ViolationsOf(err); v != nil && !apiClient(r) {
		h.show(w, r, http.StatusUnprocessableEntity, id, v)
		return
	}
	fail(w, r, err)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.documents.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]uint{"deleted": id}, documentsPath, "deleted")
}

func (h *DocumentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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
	if err := h.documents.SetStatus(r.Context(), id, models.DocumentStatus(s)); err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, http.StatusOK, map[string]string{"status": s}, documentPath(id), "saved")
}

func (h *DocumentHandler) form(w http.ResponseWriter, r *http.Request, status int, id uint, in services.DocumentInput, errs validation.Violations) {
	customers, _, err := h.customers.List(r.Context(), services.ListFilter{Limit: 200})
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, status, "documents/form.html", map[string]any{
		"ID":        id,
		"Document":  in,
		"Types":     models.DocumentTypes(),
		"Customers": customers,
		"Errors":    errs,
		"Action":    documentsPath,
	})
}

func decodeDocument(r *http.Request) (services.DocumentInput, error) {
	var in services.DocumentInput
	err := decode(r, &in, func(f url.Values, v validation.Violations) {
		in = services.DocumentInput{
			Type:        models.DocumentType(formString(f, "type")),
			CustomerID:  formUintPtr(f, "customer_id", v),
			QuotationID: formUintPtr(f, "quotation_id", v),
			Amount:      formDecimal(f, "amount", v),
			IssueDate:   formTime(f, "issue_date", v),
			Notes:       formString(f, "notes"),
		}
	})
	return in, err
}
