package models

import (
	"encoding/json"
	"testing"
)

func TestParseMoneyRoundsToCents(t *testing.T) {
	m, err := ParseMoney(" 14.505 ")
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	if m.String() != "14.51" {
		t.Fatalf("unexpected money: %s", m.String())
	}
	if _, err := ParseMoney("abc"); err == nil {
		t.Fatalf("expected parse error for non numeric input")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	price, _ := ParseMoney("9.99")
	line := price.Times(3)
	if line.String() != "29.97" {
		t.Fatalf("unexpected line total: %s", line.String())
	}
	other, _ := ParseMoney("14.50")
	if got := line.Plus(other).String(); got != "44.47" {
		t.Fatalf("unexpected sum: %s", got)
	}
}

func TestMoneyStorableWithinColumnRange(t *testing.T) {
	for raw, want := range map[string]bool{
		"0":                     true,
		"999999999999999999.99": true,
		"1000000000000000000":   false,
		"1e40":                  false,
		"-1e40":                 false,
	} {
		m, err := ParseMoney(raw)
		if err != nil {
			t.Fatalf("parse %s failed: %v", raw, err)
		}
		if got := m.Storable(); got != want {
			t.Fatalf("Storable(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestMoneyJSONAcceptsStringAndNumber(t *testing.T) {
	var fromString, fromNumber Money
	if err := json.Unmarshal([]byte(`"12.5"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`12.5`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if !fromString.Equal(fromNumber.Decimal) {
		t.Fatalf("expected equal amounts: %s vs %s", fromString, fromNumber)
	}
	raw, err := json.Marshal(fromString)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `"12.50"` {
		t.Fatalf("unexpected json: %s", raw)
	}
}
