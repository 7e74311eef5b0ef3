package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
)

type addItemBody struct {
	ProductID string `json:"productId" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=99"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":120}`))
	var body addItemBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", pkgerrors.As(err).Details())
	}
	if details["productId"] != "is required" {
		t.Fatalf("unexpected productId message %q", details["productId"])
	}
	if details["quantity"] != "must be 99 or less" {
		t.Fatalf("unexpected quantity message %q", details["quantity"])
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"ginger","price":1}`))
	var body addItemBody
	if err := DecodeJSON(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 20, 1, 100); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected out of range error, got %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if v, err := ParseQueryInt(req, "limit", 20, 1, 100); err != nil || v != 20 {
		t.Fatalf("expected default 20, got %d (%v)", v, err)
	}
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	if got := SanitizeString("  ขิงผง  ", 3); got != "ขิง" {
		t.Fatalf("expected rune-safe truncation, got %q", got)
	}
	if got := SanitizeString(" turmeric ", 0); got != "turmeric" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}
