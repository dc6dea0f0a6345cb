package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending is the status stamped on every newly created order.
// The backend owns all later status transitions.
const OrderStatusPending = "PENDING"

// OrderDetailWrite is a single line item of an order-creation request
type OrderDetailWrite struct {
	OrchidID string          `json:"orchidId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderWrite is the order-creation request payload
type OrderWrite struct {
	AccountID    string             `json:"accountId"`
	OrderDate    time.Time          `json:"orderDate"`
	Status       string             `json:"status"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	OrderDetails []OrderDetailWrite `json:"orderDetails"`
}

// Order is an order record as returned by the orders service
type Order struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	OrderDate   time.Time       `json:"orderDate"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// OrderDetail is a persisted order line item
type OrderDetail struct {
	ID       string          `json:"id"`
	OrderID  string          `json:"orderId"`
	OrchidID string          `json:"orchidId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderSearch holds filter and pagination parameters for the orders search
// endpoint.
type OrderSearch struct {
	ID        string
	AccountID string
	Status    string
	Page      int
	Size      int
	Sort      []string
}
