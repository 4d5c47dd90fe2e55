package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentUnknown is the sentinel category for a blank payment method.
const PaymentUnknown = "INCONNU"

// Canonical payment categories reported in the revenue-split insight.
const (
	PaymentCard = "CB"
	PaymentCash = "ESPECES"
)

// Transaction is one normalized row of a cash-register export.
// Every Transaction has a positive Amount, a non-empty Payment and a valid
// Timestamp; rows that cannot satisfy that are dropped during normalization.
type Transaction struct {
	Item     string          `json:"item"`
	Amount   decimal.Decimal `json:"amount"`
	Payment  string          `json:"payment"`
	Employee string          `json:"employee"`
	Ticket   string          `json:"ticket"`

	Timestamp time.Time `json:"timestamp"`

	// Derived from Timestamp.
	Date    time.Time `json:"date"`    // calendar date, midnight
	Hour    int       `json:"hour"`    // 0-23
	Weekday string    `json:"weekday"` // day name
}

// DateKey returns the calendar date as YYYY-MM-DD, used as a grouping key.
func (t Transaction) DateKey() string {
	return t.Date.Format("2006-01-02")
}

// Selection is the filter state of one report request. All clauses are
// AND-combined. A zero Start/End defaults to the table's min/max date.
//
// The category slices are literal: an empty slice selects nothing. Callers
// that want "no restriction" must pass every observed category (the HTTP
// layer does this for absent parameters).
type Selection struct {
	Start time.Time
	End   time.Time

	Payments  []string
	Employees []string
	Items     []string

	// Case-insensitive substring match on the ticket field.
	// Blank (after trimming) disables the clause.
	TicketSearch string
}
