package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/bookcart/internal/config"
	"github.com/bookcart/internal/i18n"
	"github.com/bookcart/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildOrderConfirmationContent(t *testing.T) {
	order := &models.Order{
		OrderNo:         "BC20260101000000123456",
		PaymentMode:     "cod",
		ShippingName:    "Ada",
		ShippingAddress: "1 Main St",
		ShippingPhone:   "555-0100",
		TotalAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString("34.49")),
		Items: []models.OrderItem{
			{BookName: "BookA", Quantity: 1, TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("9.99"))},
			{BookName: "BookB", Quantity: 1, TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("24.50"))},
		},
	}

	tests := []struct {
		name                string
		locale              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:                "en",
			locale:              i18n.LocaleEN,
			wantSubjectContains: []string{"Order BC20260101000000123456 confirmed"},
			wantBodyContains:    []string{"BookA x 1 = 9.99", "BookB x 1 = 24.50", "Total: 34.49", "1 Main St"},
		},
		{
			name:                "zh",
			locale:              i18n.LocaleZH,
			wantSubjectContains: []string{"已确认"},
			wantBodyContains:    []string{"合计：34.49", "支付方式：cod"},
		},
		{
			name:                "unknown_locale_falls_back",
			locale:              "fr-FR",
			wantSubjectContains: []string{"confirmed"},
			wantBodyContains:    []string{"Ship to: Ada"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOrderConfirmationContent(order, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestSendOrderConfirmationDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	err := svc.SendOrderConfirmation("ada@example.com", &models.Order{OrderNo: "BC1"}, i18n.LocaleEN)
	if !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{Enabled: true})
	err = svc.SendOrderConfirmation("ada@example.com", &models.Order{OrderNo: "BC1"}, i18n.LocaleEN)
	if !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}
