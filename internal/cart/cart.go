// Package cart encodes the shopping cart to and from a single cookie value.
// The cookie is the only place the cart exists: every request rebuilds the
// cart from the cookie and every mutation writes a fresh cookie back.
//
// Wire format: "<id>:<qty>|<id>:<qty>|...". Encoding sorts entries by
// product id ascending so the same cart always serializes the same way.
package cart

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

const (
	pairSep  = "|"
	fieldSep = ":"

	// CookieTTL is the cart cookie lifetime in seconds. Kept as
	// 3600*24*30*12 (~360 days, not a calendar year) for compatibility
	// with cookies issued by earlier deployments.
	CookieTTL = 3600 * 24 * 30 * 12
)

// ErrInvalidProduct is returned for non-positive product ids. Callers turn
// it into a redirect with an "invalid" status flag, never a hard failure.
var ErrInvalidProduct = errors.New("cart: invalid product id")

// Cart maps product ids to the raw quantity string carried by the cookie.
// Quantities stay strings until arithmetic or rendering needs them; an
// unparseable quantity falls back to 1 at that point.
type Cart struct {
	items map[int]string
}

// Entry is a resolved cart line for rendering.
type Entry struct {
	ProductID int
	Quantity  int
}

func New() *Cart {
	return &Cart{items: make(map[int]string)}
}

// Parse decodes a raw cookie value. An empty value means "no cart cookie"
// and returns nil, which callers must distinguish from a present cookie
// that happens to hold zero valid entries (a non-nil empty cart).
//
// Parsing is lenient: a field is dropped when it does not split into
// exactly two parts on ":", when its id does not parse as an integer, or
// when the id is not positive. The quantity part is kept as-is. When the
// same id appears twice the last occurrence wins.
func Parse(raw string) *Cart {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	c := New()
	for _, field := range strings.Split(raw, pairSep) {
		parts := strings.Split(strings.TrimSpace(field), fieldSep)
		if len(parts) != 2 {
			continue
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil || id <= 0 {
			continue
		}
		c.items[id] = parts[1]
	}
	return c
}

// Encode serializes the cart back into a cookie value. A nil or empty cart
// encodes to the empty string.
func (c *Cart) Encode() string {
	if c == nil || len(c.items) == 0 {
		return ""
	}

	fields := make([]string, 0, len(c.items))
	for _, id := range c.IDs() {
		fields = append(fields, strconv.Itoa(id)+fieldSep+c.items[id])
	}
	return strings.Join(fields, pairSep)
}

// Add increments the quantity of id by one, inserting it with quantity 1
// when absent.
func (c *Cart) Add(id int) error {
	if id <= 0 {
		return ErrInvalidProduct
	}
	if _, ok := c.items[id]; ok {
		c.items[id] = strconv.Itoa(c.Quantity(id) + 1)
		return nil
	}
	c.items[id] = "1"
	return nil
}

// Remove deletes id from the cart. Removing from a nil cart or removing an
// id that is not present is a successful no-op.
func (c *Cart) Remove(id int) error {
	if id <= 0 {
		return ErrInvalidProduct
	}
	if c == nil {
		return nil
	}
	delete(c.items, id)
	return nil
}

// SetQuantities applies a bulk "update cart" form. For every id currently
// in the cart the requested value is looked up in updates: a positive
// integer sets the quantity, anything else (missing field, unparseable
// value, zero or negative) removes the line item.
func (c *Cart) SetQuantities(updates map[int]string) {
	if c == nil {
		return
	}
	for _, id := range c.IDs() {
		q, err := strconv.Atoi(strings.TrimSpace(updates[id]))
		if err != nil || q <= 0 {
			delete(c.items, id)
			continue
		}
		c.items[id] = strconv.Itoa(q)
	}
}

// Quantity returns the quantity of id coerced to an integer, falling back
// to 1 when the stored value is missing or does not parse.
func (c *Cart) Quantity(id int) int {
	if c == nil {
		return 1
	}
	q, err := strconv.Atoi(strings.TrimSpace(c.items[id]))
	if err != nil || q <= 0 {
		return 1
	}
	return q
}

// Len reports the number of line items. Nil-safe.
func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// IDs returns the product ids sorted ascending. Nil-safe.
func (c *Cart) IDs() []int {
	if c == nil {
		return nil
	}
	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Entries returns the cart lines sorted by product id with coerced
// quantities, ready for rendering.
func (c *Cart) Entries() []Entry {
	ids := c.IDs()
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{ProductID: id, Quantity: c.Quantity(id)})
	}
	return entries
}
