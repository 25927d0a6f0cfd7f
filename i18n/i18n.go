// Package i18n holds the short static strings shown to users, in Thai and
// English. Unknown codes fall back to the default language, then to the
// code itself.
package i18n

import (
	"context"
	"strings"
)

const DefaultLang = "th"

type langKey struct{}

var catalogs = map[string]map[string]string{
	"th": {
		"required":          "จำเป็นต้องกรอก",
		"invalid":           "ข้อมูลไม่ถูกต้อง",
		"email":             "อีเมลไม่ถูกต้อง",
		"gt":                "ต้องมากกว่าศูนย์",
		"gte":               "ต้องไม่ติดลบ",
		"lte":               "ค่าสูงเกินไป",
		"oneof":             "ค่าที่เลือกไม่ถูกต้อง",
		"min":               "สั้นเกินไป",
		"out_of_range":      "ค่าอยู่นอกช่วงที่กำหนด",
		"access_denied":     "คุณไม่มีสิทธิ์เข้าถึงหน้านี้",
		"generic_failure":   "ดำเนินการไม่สำเร็จ กรุณาลองใหม่",
		"not_found":         "ไม่พบข้อมูล",
		"not_editable":      "ไม่สามารถแก้ไขใบเสนอราคานี้ได้",
		"invalid_status":    "สถานะไม่ถูกต้อง",
		"conflict":          "ข้อมูลซ้ำกับที่มีอยู่แล้ว",
		"last_admin":        "ต้องมีผู้ดูแลระบบที่ใช้งานอยู่อย่างน้อยหนึ่งคน",
		"login_failed":      "อีเมลหรือรหัสผ่านไม่ถูกต้อง",
		"saved":             "บันทึกเรียบร้อย",
		"deleted":           "ลบเรียบร้อย",
		"dashboard":         "แดชบอร์ด",
		"customers":         "ลูกค้า",
		"quotations":        "ใบเสนอราคา",
		"jobs":              "งานติดตั้ง",
		"referrers":         "ผู้แนะนำ",
		"documents":         "เอกสารบัญชี",
		"employees":         "พนักงาน",
		"login":             "เข้าสู่ระบบ",
		"logout":            "ออกจากระบบ",
		"password":          "รหัสผ่าน",
		"email_label":       "อีเมล",
		"name":              "ชื่อ",
		"phone":             "โทรศัพท์",
		"address":           "ที่อยู่",
		"notes":             "หมายเหตุ",
		"save":              "บันทึก",
		"delete":            "ลบ",
		"new":               "สร้างใหม่",
		"edit":              "แก้ไข",
		"search":            "ค้นหา",
		"status":            "สถานะ",
		"items":             "รายการสินค้า",
		"add_item":          "เพิ่มรายการ",
		"recalculate":       "คำนวณยอดใหม่",
		"total_amount":      "ยอดรวม",
		"grand_total":       "ยอดสุทธิ",
		"advance":           "ขั้นตอนถัดไป",
		"cancel":            "ยกเลิก",
		"welcome":           "ยินดีต้อนรับ",
		"role":              "ตำแหน่ง",
		"active":            "ใช้งาน",
		"approved_amount":   "ยอดใบเสนอราคาที่อนุมัติ",
		"status_draft":      "ร่าง",
		"status_sent":       "ส่งแล้ว",
		"status_approved":   "อนุมัติ",
		"status_rejected":   "ปฏิเสธ",
		"status_cancelled":  "ยกเลิก",
		"status_pending":    "รอดำเนินการ",
		"status_measuring":  "กำลังวัด",
		"status_measured":   "วัดเสร็จแล้ว",
		"status_installing": "กำลังติดตั้ง",
		"status_completed":  "เสร็จสิ้น",
		"status_issued":     "ออกเอกสารแล้ว",
		"status_paid":       "ชำระแล้ว",
		"status_void":       "ยกเลิกเอกสาร",
		"title":             "หัวข้อ",
		"number":            "เลขที่",
		"customer":          "ลูกค้า",
		"product":           "สินค้า",
		"description":       "รายละเอียด",
		"width":             "กว้าง (ม.)",
		"height":            "สูง (ม.)",
		"quantity":          "จำนวน",
		"unit_price":        "ราคาต่อหน่วย",
		"line_total":        "รวม",
		"valid_until":       "ใช้ได้ถึง",
		"kind":              "ประเภทงาน",
		"kind_measurement":  "วัดพื้นที่",
		"kind_installation": "ติดตั้ง",
		"scheduled_at":      "วันนัด",
		"technician":        "ช่าง",
		"referrer":          "ผู้แนะนำ",
		"commission":        "ค่าคอมมิชชั่น (%)",
		"line_id":           "ไลน์ไอดี",
		"district":          "เขต/อำเภอ",
		"province":          "จังหวัด",
		"type":              "ประเภท",
		"amount":            "จำนวนเงิน",
		"issue_date":        "วันที่ออก",
		"type_invoice":      "ใบแจ้งหนี้",
		"type_receipt":      "ใบเสร็จรับเงิน",
		"type_credit_note":  "ใบลดหนี้",
		"type_expense":      "ค่าใช้จ่าย",
		"none":              "ไม่มี",
		"all":               "ทั้งหมด",
		"home_tagline":      "ระบบบริหารร้านผ้าม่านและมู่ลี่",
		"enable":            "เปิดใช้งาน",
		"disable":           "ปิดใช้งาน",
		"error":             "ข้อผิดพลาด",
		"back":              "กลับ",
		"customer_count":    "จำนวนลูกค้า",
	},
	"en": {
		"required":          "Required",
		"invalid":           "Invalid value",
		"email":             "Invalid email",
		"gt":                "Must be greater than zero",
		"gte":               "Must not be negative",
		"lte":               "Value too large",
		"oneof":             "Invalid choice",
		"min":               "Too short",
		"out_of_range":      "Value out of range",
		"access_denied":     "You do not have access to this page",
		"generic_failure":   "Something went wrong, please try again",
		"not_found":         "Not found",
		"not_editable":      "This quotation can no longer be edited",
		"invalid_status":    "Invalid status",
		"conflict":          "Already exists",
		"last_admin":        "At least one active admin must remain",
		"login_failed":      "Invalid email or password",
		"saved":             "Saved",
		"deleted":           "Deleted",
		"dashboard":         "Dashboard",
		"customers":         "Customers",
		"quotations":        "Quotations",
		"jobs":              "Installation jobs",
		"referrers":         "Referrers",
		"documents":         "Accounting documents",
		"employees":         "Employees",
		"login":             "Log in",
		"logout":            "Log out",
		"password":          "Password",
		"email_label":       "Email",
		"name":              "Name",
		"phone":             "Phone",
		"address":           "Address",
		"notes":             "Notes",
		"save":              "Save",
		"delete":            "Delete",
		"new":               "New",
		"edit":              "Edit",
		"search":            "Search",
		"status":            "Status",
		"items":             "Items",
		"add_item":          "Add item",
		"recalculate":       "Recalculate totals",
		"total_amount":      "Total",
		"grand_total":       "Grand total",
		"advance":           "Next step",
		"cancel":            "Cancel",
		"welcome":           "Welcome",
		"role":              "Role",
		"active":            "Active",
		"approved_amount":   "Approved quotations",
		"status_draft":      "Draft",
		"status_sent":       "Sent",
		"status_approved":   "Approved",
		"status_rejected":   "Rejected",
		"status_cancelled":  "Cancelled",
		"status_pending":    "Pending",
		"status_measuring":  "Measuring",
		"status_measured":   "Measured",
		"status_installing": "Installing",
		"status_completed":  "Completed",
		"status_issued":     "Issued",
		"status_paid":       "Paid",
		"status_void":       "Void",
		"title":             "Title",
		"number":            "Number",
		"customer":          "Customer",
		"product":           "Product",
		"description":       "Description",
		"width":             "Width (m)",
		"height":            "Height (m)",
		"quantity":          "Quantity",
		"unit_price":        "Unit price",
		"line_total":        "Line total",
		"valid_until":       "Valid until",
		"kind":              "Job type",
		"kind_measurement":  "Measurement",
		"kind_installation": "Installation",
		"scheduled_at":      "Scheduled",
		"technician":        "Technician",
		"referrer":          "Referrer",
		"commission":        "Commission (%)",
		"line_id":           "LINE ID",
		"district":          "District",
		"province":          "Province",
		"type":              "Type",
		"amount":            "Amount",
		"issue_date":        "Issue date",
		"type_invoice":      "Invoice",
		"type_receipt":      "Receipt",
		"type_credit_note":  "Credit note",
		"type_expense":      "Expense",
		"none":              "None",
		"all":               "All",
		"home_tagline":      "Curtain and blinds shop management",
		"enable":            "Enable",
		"disable":           "Disable",
		"error":             "Error",
		"back":              "Back",
		"customer_count":    "Customers",
	},
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// T translates code into lang.
func T(lang, code string) string {
	if m, ok := catalogs[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalogs[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the request language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && Supported(lang) {
		return lang
	}
	return DefaultLang
}
