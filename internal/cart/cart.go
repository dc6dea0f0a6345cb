package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"orchid-storefront/internal/config"
	"orchid-storefront/internal/domain"
)

// DefaultFallbackUnitPrice is charged for a product that carries no price.
var DefaultFallbackUnitPrice = decimal.NewFromInt(50)

// Line is one cart entry: a product and how many of it. A cart holds at
// most one line per orchid id.
type Line struct {
	Orchid   domain.Orchid
	Quantity int
}

// State is the cart contents plus its derived totals. Totals are
// recomputed on every transition and never stored independently.
type State struct {
	Lines     []Line
	Subtotal  decimal.Decimal
	ItemCount int
}

// Empty returns the zero cart.
func Empty() State {
	return State{Subtotal: decimal.Zero}
}

// Equal reports whether two states hold the same lines and totals. Lines
// are compared by id and quantity; with at most one line per id that pins
// the totals too.
func (s State) Equal(other State) bool {
	if s.ItemCount != other.ItemCount || len(s.Lines) != len(other.Lines) {
		return false
	}
	if !s.Subtotal.Equal(other.Subtotal) {
		return false
	}
	for i := range s.Lines {
		if s.Lines[i].Orchid.ID != other.Lines[i].Orchid.ID ||
			s.Lines[i].Quantity != other.Lines[i].Quantity {
			return false
		}
	}
	return true
}

// Command is a cart mutation. The concrete commands are AddItem,
// RemoveItem, SetQuantity and Clear.
type Command interface {
	isCommand()
}

// AddItem merges Quantity into the line for Orchid, appending a new line
// on first add. A quantity below 1 counts as 1.
type AddItem struct {
	Orchid   domain.Orchid
	Quantity int
}

// RemoveItem deletes the line for ID. Removing an absent line is a no-op.
type RemoveItem struct {
	ID string
}

// SetQuantity overwrites the quantity of the line for ID. A quantity of
// zero or less behaves as RemoveItem.
type SetQuantity struct {
	ID       string
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isCommand()     {}
func (RemoveItem) isCommand()  {}
func (SetQuantity) isCommand() {}
func (Clear) isCommand()       {}

// Reducer applies commands to cart state. It is pure: Apply never mutates
// its input and always returns state with freshly derived totals.
type Reducer struct {
	// FallbackUnitPrice replaces a missing (zero) product price in the
	// subtotal.
	FallbackUnitPrice decimal.Decimal
}

// NewReducer returns a reducer with the default fallback price.
func NewReducer() Reducer {
	return Reducer{FallbackUnitPrice: DefaultFallbackUnitPrice}
}

// ReducerFromConfig parses the configured fallback price.
func ReducerFromConfig(cfg config.CheckoutConfig) (Reducer, error) {
	price, err := decimal.NewFromString(cfg.FallbackUnitPrice)
	if err != nil {
		return Reducer{}, fmt.Errorf("invalid fallback unit price: %w", err)
	}
	return Reducer{FallbackUnitPrice: price}, nil
}

// Apply processes one command.
func (r Reducer) Apply(state State, cmd Command) State {
	switch c := cmd.(type) {
	case AddItem:
		// A product without an id is not cart-addressable
		if c.Orchid.ID == "" {
			return state
		}
		quantity := c.Quantity
		if quantity < 1 {
			quantity = 1
		}
		lines := make([]Line, len(state.Lines))
		copy(lines, state.Lines)
		merged := false
		for i := range lines {
			if lines[i].Orchid.ID == c.Orchid.ID {
				lines[i].Quantity += quantity
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, Line{Orchid: c.Orchid, Quantity: quantity})
		}
		return r.derive(lines)

	case RemoveItem:
		lines := make([]Line, 0, len(state.Lines))
		for _, line := range state.Lines {
			if line.Orchid.ID != c.ID {
				lines = append(lines, line)
			}
		}
		return r.derive(lines)

	case SetQuantity:
		if c.Quantity <= 0 {
			return r.Apply(state, RemoveItem{ID: c.ID})
		}
		lines := make([]Line, len(state.Lines))
		copy(lines, state.Lines)
		for i := range lines {
			if lines[i].Orchid.ID == c.ID {
				lines[i].Quantity = c.Quantity
			}
		}
		return r.derive(lines)

	case Clear:
		return Empty()

	default:
		return state
	}
}

// derive recomputes the totals from the line list.
func (r Reducer) derive(lines []Line) State {
	subtotal := decimal.Zero
	itemCount := 0
	for _, line := range lines {
		price := line.Orchid.Price
		if price.IsZero() {
			price = r.FallbackUnitPrice
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		itemCount += line.Quantity
	}
	return State{Lines: lines, Subtotal: subtotal, ItemCount: itemCount}
}
