package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-curtains/gate"
	"github.com/diewo77/go-curtains/internal/metrics"
	"github.com/diewo77/go-curtains/internal/models"
	"github.com/diewo77/go-curtains/internal/services"
)

type totalsBody struct {
	Item *struct {
		ID         uint            `json:"id"`
		TotalPrice decimal.Decimal `json:"total_price"`
	} `json:"item"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

func newQuotationHandler(t *testing.T) (*QuotationHandler, *models.Customer) {
	t.Helper()
	conn := setupTestDB(t)
	c := seedCustomer(t, conn)
	h := NewQuotationHandler(services.NewQuotationService(conn, metrics.Nop()), services.NewCustomerService(conn))
	return h, c
}

func createQuotation(t *testing.T, h *QuotationHandler, customerID uint) uint {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Create(rr, jsonRequest(http.MethodPost, quotationsPath, fmt.Sprintf(`{"customer_id":%d,"title":"Living room"}`, customerID), 1, gate.RoleQuotation))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", rr.Code, rr.Body.String())
	}
	var q models.Quotation
	decodeBody(t, rr, &q)
	if !strings.HasPrefix(q.Number, "QT-") || q.Status != models.QuotationStatusDraft {
		t.Fatalf("unexpected quotation %+v", q)
	}
	return q.ID
}

func withID(req *http.Request, id uint) *http.Request {
	req.SetPathValue("id", itoa(id))
	return req
}

func TestQuotationHandler_ItemsKeepTotalsInSync(t *testing.T) {
	h, c := newQuotationHandler(t)
	id := createQuotation(t, h, c.ID)
	path := quotationPath(id) + "/items"

	rr := httptest.NewRecorder()
	h.AddItem(rr, withID(jsonRequest(http.MethodPost, path, `{"product_name":"Blackout curtain","quantity":"2","unit_price":"125.25"}`, 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201 got %d body=%s", rr.Code, rr.Body.String())
	}
	var body totalsBody
	decodeBody(t, rr, &body)
	if body.Item == nil || !body.Item.TotalPrice.Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("unexpected item %+v", body.Item)
	}
	if !body.GrandTotal.Equal(decimal.RequireFromString("250.50")) || !body.TotalAmount.Equal(body.GrandTotal) {
		t.Errorf("expected totals 250.50, got %s / %s", body.TotalAmount, body.GrandTotal)
	}

	rr = httptest.NewRecorder()
	h.AddItem(rr, withID(jsonRequest(http.MethodPost, path, `{"product_name":"Roller blind","width":"1.2","height":"1.5","quantity":"1","unit_price":"100"}`, 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusCreated {
		t.Fatalf("second item: expected 201 got %d", rr.Code)
	}
	decodeBody(t, rr, &body)
	if !body.GrandTotal.Equal(decimal.RequireFromString("350.50")) {
		t.Errorf("expected 350.50, got %s", body.GrandTotal)
	}

	req := withID(jsonRequest(http.MethodDelete, path+"/"+itoa(body.Item.ID), "", 1, gate.RoleQuotation), id)
	req.SetPathValue("itemID", itoa(body.Item.ID))
	rr = httptest.NewRecorder()
	h.RemoveItem(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("remove item: expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	body = totalsBody{}
	decodeBody(t, rr, &body)
	if !body.GrandTotal.Equal(decimal.RequireFromString("250.50")) {
		t.Errorf("after removal expected 250.50, got %s", body.GrandTotal)
	}

	rr = httptest.NewRecorder()
	h.Recalculate(rr, withID(jsonRequest(http.MethodPost, quotationPath(id)+"/recalculate", "", 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusOK {
		t.Fatalf("recalculate: expected 200 got %d", rr.Code)
	}
	var totals services.Totals
	decodeBody(t, rr, &totals)
	if !totals.GrandTotal.Equal(decimal.RequireFromString("250.50")) {
		t.Errorf("recalculate changed totals: %s", totals.GrandTotal)
	}
}

func TestQuotationHandler_AddItemValidation(t *testing.T) {
	h, c := newQuotationHandler(t)
	id := createQuotation(t, h, c.ID)

	rr := httptest.NewRecorder()
	h.AddItem(rr, withID(jsonRequest(http.MethodPost, quotationPath(id)+"/items", `{"product_name":"Sheer","quantity":"0","unit_price":"10"}`, 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rr.Code)
	}
	e := errorOf(t, rr)
	details, _ := e.Details.(map[string]any)
	if e.Error != "invalid" || details["quantity"] != "gt" {
		t.Errorf("unexpected error body %+v", e)
	}

	rr = httptest.NewRecorder()
	h.AddItem(rr, withID(jsonRequest(http.MethodPost, quotationPath(id)+"/items", `{"product_name":"Sheer","colour":"red"}`, 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown field: expected 422 got %d", rr.Code)
	}
}

func TestQuotationHandler_StatusAndEditability(t *testing.T) {
	h, c := newQuotationHandler(t)
	id := createQuotation(t, h, c.ID)

	rr := httptest.NewRecorder()
	h.SetStatus(rr, withID(jsonRequest(http.MethodPost, quotationPath(id)+"/status", `{"status":"archived"}`, 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400 got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.SetStatus(rr, withID(jsonRequest(http.MethodPost, quotationPath(id)+"/status", `{"status":"approved"}`, 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusOK {
		t.Fatalf("approve: expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.AddItem(rr, withID(jsonRequest(http.MethodPost, quotationPath(id)+"/items", `{"product_name":"Sheer","quantity":"1","unit_price":"10"}`, 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusConflict || errorOf(t, rr).Error != "not_editable" {
		t.Errorf("approved quotation: expected 409 not_editable, got %d %s", rr.Code, rr.Body.String())
	}

	// any status may follow any other
	rr = httptest.NewRecorder()
	h.SetStatus(rr, withID(jsonRequest(http.MethodPost, quotationPath(id)+"/status", `{"status":"draft"}`, 1, gate.RoleQuotation), id))
	if rr.Code != http.StatusOK {
		t.Errorf("back to draft: expected 200 got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.SetStatus(rr, withID(jsonRequest(http.MethodPost, "/projects/quotations/999/status", `{"status":"sent"}`, 1, gate.RoleQuotation), 999))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown quotation: expected 404 got %d", rr.Code)
	}
}

func TestQuotationHandler_HTMLView(t *testing.T) {
	h, c := newQuotationHandler(t)
	id := createQuotation(t, h, c.ID)

	req := withID(httptest.NewRequest(http.MethodGet, quotationPath(id), nil), id)
	rr := httptest.NewRecorder()
	h.View(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, "QT-") || !strings.Contains(body, "Khun Malee") {
		t.Errorf("quotation not rendered: %s", body)
	}
	if !strings.Contains(body, `action="/projects/quotations/`+itoa(id)+`/items"`) {
		t.Error("draft quotation should offer the add item form")
	}
}

func TestQuotationHandler_FormAddItemRedirects(t *testing.T) {
	h, c := newQuotationHandler(t)
	id := createQuotation(t, h, c.ID)

	req := withID(formRequest(http.MethodPost, quotationPath(id)+"/items", map[string]string{
		"product_name": "Curtain",
		"quantity":     "3",
		"unit_price":   "1,000.00",
	}, 1), id)
	rr := httptest.NewRecorder()
	h.AddItem(rr, req)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != quotationPath(id) {
		t.Fatalf("expected redirect to quotation, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	req = withID(formRequest(http.MethodPost, quotationPath(id)+"/items", map[string]string{
		"product_name": "Curtain",
		"quantity":     "abc",
	}, 1), id)
	rr = httptest.NewRecorder()
	h.AddItem(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad quantity: expected 422 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "3,000.00") {
		t.Error("re-rendered page should still show the stored total")
	}
}
