package services

import (
	"errors"
	"testing"

	"github.com/diewo77/go-curtains/internal/models"
)

func TestCustomerService(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewCustomerService(conn)

	if _, err := svc.Create(ctx, 1, CustomerInput{Email: "nope"}); ViolationsOf(err)["name"] != "required" || ViolationsOf(err)["email"] != "email" {
		t.Errorf("validation: got %v", err)
	}
	c, err := svc.Create(ctx, 1, CustomerInput{Name: "Baan Suan Co", Phone: "021234567", Province: "Chiang Mai"})
	if err != nil {
		t.Fatal(err)
	}
	svc.Create(ctx, 1, CustomerInput{Name: "Other"})

	list, total, err := svc.List(ctx, ListFilter{Query: "suan"})
	if err != nil || total != 1 || list[0].ID != c.ID {
		t.Errorf("name search: %d (%v)", total, err)
	}
	_, total, _ = svc.List(ctx, ListFilter{Query: "0212"})
	if total != 1 {
		t.Errorf("phone search total = %d", total)
	}
	_, total, _ = svc.List(ctx, ListFilter{Limit: 1})
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}

	updated, err := svc.Update(ctx, c.ID, CustomerInput{Name: "Baan Suan Ltd"})
	if err != nil || updated.Name != "Baan Suan Ltd" || updated.Province != "" {
		t.Errorf("update: %+v (%v)", updated, err)
	}
	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted: %v", err)
	}
}

func TestReferrerService(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewReferrerService(conn)
	customers := NewCustomerService(conn)

	if _, err := svc.Create(ctx, ReferrerInput{Name: "Deco", CommissionRate: dec("1.5")}); ViolationsOf(err)["commission_rate"] != "out_of_range" {
		t.Errorf("rate validation: %v", err)
	}
	r, err := svc.Create(ctx, ReferrerInput{Name: "Deco Studio", CommissionRate: dec("0.05")})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"A", "B"} {
		if _, err := customers.Create(ctx, 1, CustomerInput{Name: name, ReferrerID: &r.ID}); err != nil {
			t.Fatal(err)
		}
	}
	svc.Create(ctx, ReferrerInput{Name: "Lonely"})

	list, total, err := svc.List(ctx, ListFilter{})
	if err != nil || total != 2 {
		t.Fatalf("list: %d (%v)", total, err)
	}
	counts := map[string]int64{}
	for _, s := range list {
		counts[s.Name] = s.CustomerCount
	}
	if counts["Deco Studio"] != 2 || counts["Lonely"] != 0 {
		t.Errorf("counts = %v", counts)
	}

	if err := svc.Delete(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	var attached int64
	conn.Model(&models.Customer{}).Where("referrer_id IS NOT NULL").Count(&attached)
	if attached != 0 {
		t.Errorf("customers still attached: %d", attached)
	}
}

func TestAccountingService(t *testing.T) {
	conn := setupTestDB(t)
	quotes := NewQuotationService(conn, nil)
	svc := NewAccountingService(conn)
	c := seedCustomer(t, conn)
	q := newQuotation(t, quotes, c.ID)
	if _, err := quotes.AddItem(ctx, q.ID, ItemInput{ProductName: "Sheer", Quantity: dec("2"), UnitPrice: dec("1200.25")}); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.Create(ctx, 1, DocumentInput{Type: models.DocumentTypeInvoice, QuotationID: &q.ID, Amount: dec("1")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !doc.Amount.Equal(dec("2400.50")) || doc.CustomerID == nil || *doc.CustomerID != c.ID {
		t.Errorf("document did not copy quotation: amount=%s customer=%v", doc.Amount, doc.CustomerID)
	}
	if doc.Status != models.DocumentStatusDraft || len(doc.Number) == 0 || doc.Number[:4] != "INV-" {
		t.Errorf("unexpected doc: %+v", doc)
	}

	if _, err := svc.Create(ctx, 1, DocumentInput{Type: "memo"}); ViolationsOf(err)["type"] != "oneof" {
		t.Errorf("bad type: %v", err)
	}
	if _, err := svc.Create(ctx, 1, DocumentInput{Type: models.DocumentTypeExpense, Amount: dec("-3")}); ViolationsOf(err)["amount"] != "gte" {
		t.Errorf("negative amount: %v", err)
	}
	missing := uint(999)
	if _, err := svc.Create(ctx, 1, DocumentInput{Type: models.DocumentTypeReceipt, QuotationID: &missing}); ViolationsOf(err)["quotation_id"] != "invalid" {
		t.Errorf("missing quotation: %v", err)
	}

	if err := svc.SetStatus(ctx, doc.ID, models.DocumentStatusPaid); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetStatus(ctx, doc.ID, "refunded"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: %v", err)
	}
	_, total, _ := svc.List(ctx, DocumentFilter{Status: models.DocumentStatusPaid})
	if total != 1 {
		t.Errorf("paid total = %d", total)
	}
	updated, err := svc.Update(ctx, doc.ID, DocumentInput{Amount: dec("2000"), Notes: "discount"})
	if err != nil || !updated.Amount.Equal(dec("2000")) || updated.Number != doc.Number {
		t.Errorf("update: %+v (%v)", updated, err)
	}
	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
}

func TestDashboardService(t *testing.T) {
	conn := setupTestDB(t)
	quotes := NewQuotationService(conn, nil)
	jobs := NewJobService(conn)
	c := seedCustomer(t, conn)

	for _, price := range []string{"100.00", "250.50"} {
		q := newQuotation(t, quotes, c.ID)
		if _, err := quotes.AddItem(ctx, q.ID, ItemInput{ProductName: "Blind", Quantity: dec("1"), UnitPrice: dec(price)}); err != nil {
			t.Fatal(err)
		}
		if err := quotes.SetStatus(ctx, q.ID, models.QuotationStatusApproved); err != nil {
			t.Fatal(err)
		}
	}
	newQuotation(t, quotes, c.ID)
	newJob(t, jobs, c.ID)

	st, err := NewDashboardService(conn).Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Customers != 1 || st.Quotations[models.QuotationStatusApproved] != 2 || st.Quotations[models.QuotationStatusDraft] != 1 {
		t.Errorf("counts = %+v", st)
	}
	if st.Jobs[models.JobStatusPending] != 1 {
		t.Errorf("jobs = %v", st.Jobs)
	}
	if !st.ApprovedAmount.Equal(dec("350.50")) {
		t.Errorf("approved amount = %s, want 350.50", st.ApprovedAmount)
	}
}
