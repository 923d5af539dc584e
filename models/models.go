package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Reference data ---

// Item is a stock item keyed by its normalized stock code.
type Item struct {
	StockID      string  `json:"stock_id"`
	Description1 *string `json:"description1,omitempty"`
	SupplierID   *string `json:"supplier_id,omitempty"`
	Cat0         *string `json:"cat0,omitempty"`
	Cat1         *string `json:"cat1,omitempty"`
	Cat2         *string `json:"cat2,omitempty"`
	Cat3         *string `json:"cat3,omitempty"`
	Cat4         *string `json:"cat4,omitempty"`
	Brand        *string `json:"brand,omitempty"`
}

// Supplier provides items to the branches.
type Supplier struct {
	SupplierID   string  `json:"supplier_id"`
	SupplierName *string `json:"supplier_name,omitempty"`
}

// --- Warehouse aggregates ---

// WeeklyAggregate is the summed quantity of one stock code in one week, optionally for one branch.
type WeeklyAggregate struct {
	StockID  string  `json:"stock_id"`
	Week     string  `json:"week"`
	Branch   string  `json:"branch,omitempty"`
	Quantity float64 `json:"quantity"`
}

// StockOnHand is the current on-hand quantity of a stock code at a branch.
type StockOnHand struct {
	StockID string  `json:"stock_id"`
	Branch  string  `json:"branch"`
	OnHand  float64 `json:"onhand"`
}

// WeeklySalesRow is one stock code's all-branch sales for a week.
type WeeklySalesRow struct {
	StockID      string  `json:"stock_id"`
	QuantitySold float64 `json:"quantity_sold"`
	LinkQtySold  float64 `json:"link_qty_sold"`
}

// SalesRecord is one sales line as stored in the warehouse.
type SalesRecord struct {
	Branch   string  `json:"branch"`
	StockID  string  `json:"stock_id"`
	TranDate string  `json:"tran_date"`
	Quantity float64 `json:"quantity"`
	LinkQty  float64 `json:"link_qty"`
}
