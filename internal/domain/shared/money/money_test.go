package money

import (
	"errors"
	"testing"
)

func TestNewValidatesCurrency(t *testing.T) {
	if _, err := New(100, "US"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
	m, err := New(100, "usd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Currency != "USD" {
		t.Fatalf("expected normalized currency USD, got %s", m.Currency)
	}
}

func TestAddRequiresSameCurrency(t *testing.T) {
	a := Must(1000, "USD")
	b := Must(250, "EUR")
	if _, err := a.Add(b); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	sum, err := a.Add(Must(500, "USD"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Amount != 1500 {
		t.Fatalf("expected 1500, got %d", sum.Amount)
	}
}

func TestMultiply(t *testing.T) {
	m := Must(12000, "USD")
	got := m.Multiply(4)
	if got.Amount != 48000 || got.Currency != "USD" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNegative(t *testing.T) {
	if Must(0, "USD").Negative() {
		t.Fatal("zero must not be negative")
	}
	if !(Money{Amount: -1, Currency: "USD"}).Negative() {
		t.Fatal("expected negative amount to report Negative")
	}
}
