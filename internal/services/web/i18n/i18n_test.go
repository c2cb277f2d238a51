package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestPrinterTranslatesDisplayStrings(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		key  string
		want string
	}{
		{tag: language.AmericanEnglish, key: "display.loading", want: "Loading..."},
		{tag: language.AmericanEnglish, key: "display.error", want: "Failed to connect to backend"},
		{tag: language.BrazilianPortuguese, key: "display.loading", want: "Carregando..."},
		{tag: language.BrazilianPortuguese, key: "display.error", want: "Falha ao conectar ao backend"},
	}
	for _, tc := range tests {
		if got := Printer(tc.tag).Sprintf(tc.key); got != tc.want {
			t.Fatalf("Printer(%s).Sprintf(%q) = %q, want %q", tc.tag, tc.key, got, tc.want)
		}
	}
}

func TestLocalizePersistsExplicitChoice(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/?lang=pt-BR", nil)
	rec := httptest.NewRecorder()

	_, tag := Localize(rec, req)
	if tag != language.BrazilianPortuguese {
		t.Fatalf("tag = %v, want %v", tag, language.BrazilianPortuguese)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != LangCookieName {
		t.Fatalf("cookies = %v, want %s", cookies, LangCookieName)
	}
}

func TestLocalizeDefaultsWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	rec := httptest.NewRecorder()

	_, tag := Localize(rec, req)
	if tag != Default() {
		t.Fatalf("tag = %v, want %v", tag, Default())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("expected no cookie without explicit choice")
	}
}
