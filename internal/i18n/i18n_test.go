package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCatalogKeysMatch(t *testing.T) {
	es := catalog[LocaleEsES]
	en := catalog[LocaleEnUS]
	for key := range es {
		if _, ok := en[key]; !ok {
			t.Fatalf("missing en-US translation for %s", key)
		}
	}
	for key := range en {
		if _, ok := es[key]; !ok {
			t.Fatalf("missing es-ES translation for %s", key)
		}
	}
}

func TestTFallbacks(t *testing.T) {
	if got := T(LocaleEnUS, "error.order_not_found"); got != "Order not found" {
		t.Fatalf("unexpected en message: %s", got)
	}
	if got := T("fr-FR", "error.order_not_found"); got != "Pedido no encontrado" {
		t.Fatalf("expected spanish fallback, got %s", got)
	}
	if got := T(LocaleEsES, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("expected key fallback, got %s", got)
	}
}

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		url    string
		header map[string]string
		want   string
	}{
		{name: "default", url: "/", want: LocaleEsES},
		{name: "query", url: "/?lang=en", want: LocaleEnUS},
		{name: "header", url: "/", header: map[string]string{"X-Locale": "en-US"}, want: LocaleEnUS},
		{name: "accept_language", url: "/", header: map[string]string{"Accept-Language": "en-GB,en;q=0.8"}, want: LocaleEnUS},
		{name: "accept_language_spanish", url: "/", header: map[string]string{"Accept-Language": "es-MX"}, want: LocaleEsES},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			c.Request = req
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
