package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("th-TH,th;q=0.8") != "th" {
		t.Fatalf("expected th")
	}
	if DetectLanguage("fr-FR,en;q=0.5") != "en" {
		t.Fatalf("expected second preference en")
	}
	if DetectLanguage("") != "th" {
		t.Fatalf("expected default th")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("th", "required") != "จำเป็นต้องกรอก" {
		t.Fatalf("expected Thai translation")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to th translation if exists
	if T("es", "required") != "จำเป็นต้องกรอก" {
		t.Fatalf("expected th fallback for es lang")
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for code := range catalogs["th"] {
		if _, ok := catalogs["en"][code]; !ok {
			t.Errorf("en catalog missing %q", code)
		}
	}
	for code := range catalogs["en"] {
		if _, ok := catalogs["th"][code]; !ok {
			t.Errorf("th catalog missing %q", code)
		}
	}
}

func TestLangContext(t *testing.T) {
	ctx := WithLang(context.Background(), "en")
	if LangFromContext(ctx) != "en" {
		t.Fatalf("expected en from context")
	}
	if LangFromContext(WithLang(context.Background(), "xx")) != DefaultLang {
		t.Fatalf("unsupported lang should fall back")
	}
	if LangFromContext(context.Background()) != DefaultLang {
		t.Fatalf("missing lang should fall back")
	}
}
