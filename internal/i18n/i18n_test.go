package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/cart?lang=zh-TW", nil)
	c.Request.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	if got := ResolveLocale(c); got != LocaleZH {
		t.Fatalf("expected zh locale from query, got %s", got)
	}

	c.Request = httptest.NewRequest("GET", "/cart", nil)
	c.Request.Header.Set("Accept-Language", "zh-CN;q=0.9,en;q=0.8")
	if got := ResolveLocale(c); got != LocaleZH {
		t.Fatalf("expected zh locale from header, got %s", got)
	}
}

func TestTFallsBackToKey(t *testing.T) {
	if got := T(LocaleZH, "error.cart_empty"); got != "购物车为空" {
		t.Fatalf("unexpected zh message: %s", got)
	}
	if got := T("fr-FR", "error.cart_empty"); got != "Your cart is empty" {
		t.Fatalf("unknown locale should use english, got %s", got)
	}
	if got := Sprintf(LocaleEN, "missing.key", 1); got != "missing.key" {
		t.Fatalf("missing key should return key, got %s", got)
	}
	if got := Sprintf(LocaleEN, "error.rate_limited", 30); got != "Too many attempts, retry in 30 seconds" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestEveryKeyTranslated(t *testing.T) {
	for key := range messages[LocaleEN] {
		if _, ok := messages[LocaleZH][key]; !ok {
			t.Fatalf("zh table missing key %s", key)
		}
	}
}
