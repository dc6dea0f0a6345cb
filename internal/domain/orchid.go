package domain

import (
	"github.com/shopspring/decimal"
)

// Orchid represents a product as returned by the catalog service
type Orchid struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	IsNatural    bool            `json:"isNatural"`
	URL          string          `json:"url"`
	Price        decimal.Decimal `json:"price"`
	CategoryName string          `json:"categoryName"`
}

// OrchidWrite is the payload for creating or updating an orchid
type OrchidWrite struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsNatural   bool            `json:"isNatural"`
	URL         string          `json:"url"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"categoryId"`
}

// Category represents a product category
type Category struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// OrchidSearch holds the filter, pagination and sort parameters accepted
// by the catalog search endpoint. Zero values are omitted from the query.
type OrchidSearch struct {
	ID           string
	Name         string
	Description  string
	IsNatural    *bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	CategoryName string
	Page         int
	Size         int
	Sort         []string
}
