package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestJobStatus_Next(t *testing.T) {
	tests := []struct {
		from   JobStatus
		want   JobStatus
		wantOK bool
	}{
		{JobStatusPending, JobStatusMeasuring, true},
		{JobStatusMeasuring, JobStatusMeasured, true},
		{JobStatusMeasured, JobStatusInstalling, true},
		{JobStatusInstalling, JobStatusCompleted, true},
		{JobStatusCompleted, "", false},
		{JobStatusCancelled, "", false},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			got, ok := tt.from.Next()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Next() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestJobStatus_TerminalAndCancel(t *testing.T) {
	for _, s := range JobStatuses() {
		terminal := s == JobStatusCompleted || s == JobStatusCancelled
		if s.IsTerminal() != terminal {
			t.Errorf("%s.IsTerminal() = %v", s, s.IsTerminal())
		}
		if s.CanCancel() == terminal {
			t.Errorf("%s.CanCancel() = %v", s, s.CanCancel())
		}
	}
	if JobStatus("bogus").CanCancel() {
		t.Error("unknown status should not offer cancel")
	}
}

func TestQuotationStatus(t *testing.T) {
	editable := map[QuotationStatus]bool{
		QuotationStatusDraft: true,
		QuotationStatusSent:  true,
	}
	for _, s := range QuotationStatuses() {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
		if s.IsEditable() != editable[s] {
			t.Errorf("%s.IsEditable() = %v", s, s.IsEditable())
		}
	}
	if QuotationStatus("archived").Valid() {
		t.Error("archived should not be valid")
	}
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(decimal.RequireFromString("2.5"), decimal.RequireFromString("100.2"))
	if !got.Equal(decimal.RequireFromString("250.5")) {
		t.Errorf("LineTotal = %s, want 250.5", got)
	}
}

func TestQuotationItem_Area(t *testing.T) {
	item := &QuotationItem{}
	if _, ok := item.Area(); ok {
		t.Error("expected no area without dimensions")
	}
	item.Width = decimal.NewNullDecimal(decimal.RequireFromString("1.5"))
	item.Height = decimal.NewNullDecimal(decimal.NewFromInt(2))
	area, ok := item.Area()
	if !ok || !area.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Area() = (%s, %v), want (3, true)", area, ok)
	}
}

func TestCustomer_FullAddress(t *testing.T) {
	c := &Customer{Address: "12 Sukhumvit Rd", District: " ", Province: "Bangkok"}
	if got := c.FullAddress(); got != "12 Sukhumvit Rd, Bangkok" {
		t.Errorf("FullAddress() = %q", got)
	}
}

func TestReferrer_Commission(t *testing.T) {
	r := &Referrer{CommissionRate: decimal.RequireFromString("0.05")}
	if got := r.CommissionOn(decimal.RequireFromString("350.50")); !got.Equal(decimal.RequireFromString("17.53")) {
		t.Errorf("CommissionOn = %s, want 17.53", got)
	}
	if got := r.CommissionPercent(); !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("CommissionPercent = %s, want 5", got)
	}
}

func TestDocumentType(t *testing.T) {
	if DocumentTypeInvoice.Prefix() != "INV" || !DocumentTypeExpense.Valid() {
		t.Error("unexpected document type helpers")
	}
	if DocumentType("memo").Valid() {
		t.Error("memo should not be valid")
	}
}

func TestUser_DisplayName(t *testing.T) {
	u := &User{Email: "a@shop.test"}
	if u.DisplayName() != "a@shop.test" {
		t.Errorf("DisplayName() = %q", u.DisplayName())
	}
	u.Name = "Somchai"
	if u.DisplayName() != "Somchai" {
		t.Errorf("DisplayName() = %q", u.DisplayName())
	}
}
