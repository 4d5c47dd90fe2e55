package models

import (
	"github.com/shopspring/decimal"
)

// KPIs are the scalar summary metrics of a filtered table.
type KPIs struct {
	Transactions  int             `json:"transactions"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageBasket decimal.Decimal `json:"average_basket"`
}

// HourTotal is summed revenue for one hour of day.
type HourTotal struct {
	Hour    int             `json:"hour"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DayTotal is summed revenue for one calendar date (YYYY-MM-DD).
type DayTotal struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CategoryTotal is summed revenue for one category value
// (payment method, item or employee).
type CategoryTotal struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CategoryCount is a transaction count for one category value.
type CategoryCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
