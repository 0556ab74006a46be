package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/velikanov/storefront/internal/cart"
	"github.com/velikanov/storefront/internal/events"
	"github.com/velikanov/storefront/internal/logging"
	"github.com/velikanov/storefront/internal/models"
)

// CartHandler owns every page and mutation that touches the cart cookie.
// The cookie is the cart: each request decodes it, mutations re-encode it
// onto the response, and nothing is stored server-side.
type CartHandler struct {
	DB         *gorm.DB
	Producer   *events.Producer
	CookieName string
	SiteURL    string
}

// cartLine is a cart entry joined with its product record for rendering.
type cartLine struct {
	ID         int
	Name       string
	Slug       string
	Image      string
	Price      int
	Discounted int
	Quantity   int
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicCart, c.RealIP(), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

// resolve joins the cart against the products table. Entries whose product
// no longer exists are simply not shown; the quantity of a product with no
// usable cookie value falls back to 1.
func (h *CartHandler) resolve(ct *cart.Cart) ([]cartLine, error) {
	ids := ct.IDs()
	if len(ids) == 0 {
		return nil, nil
	}

	var products []models.Product
	if err := h.DB.Where("id IN ?", ids).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}

	lines := make([]cartLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, cartLine{
			ID:         p.ID,
			Name:       p.Name,
			Slug:       p.Slug,
			Image:      p.Image,
			Price:      p.RegularPrice,
			Discounted: p.DiscountedPrice,
			Quantity:   ct.Quantity(p.ID),
		})
	}
	return lines, nil
}

func (h *CartHandler) CartPage(c echo.Context) error {
	var lines []cartLine
	if ct := readCart(c, h.CookieName); ct != nil {
		var err error
		if lines, err = h.resolve(ct); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
	}

	flag := c.QueryParam("add")
	if flag == "" {
		flag = c.QueryParam("remove")
	}

	return c.Render(http.StatusOK, "cart.html", echo.Map{
		"SiteURL": h.SiteURL,
		"Items":   lines,
		"Flag":    flag,
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	id, err := strconv.Atoi(c.QueryParam("product"))
	if err != nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/cart?add=invalid")
	}

	ct := readCart(c, h.CookieName)
	if ct == nil {
		ct = cart.New()
	}
	if err := ct.Add(id); err != nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/cart?add=invalid")
	}
	writeCart(c, h.CookieName, ct)

	h.publish(c, map[string]any{
		"type":       "cart_item_added",
		"product_id": id,
		"quantity":   ct.Quantity(id),
	})

	return c.Redirect(http.StatusFound, h.SiteURL+"/cart?add=done")
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	id, err := strconv.Atoi(c.QueryParam("product"))
	if err != nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/cart?remove=invalid")
	}

	ct := readCart(c, h.CookieName)
	if err := ct.Remove(id); err != nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/cart?remove=invalid")
	}
	// No cart cookie at all: removal is a no-op and stays cookie-less.
	if ct != nil {
		writeCart(c, h.CookieName, ct)
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_removed",
		"product_id": id,
	})

	return c.Redirect(http.StatusFound, h.SiteURL+"/cart?remove=done")
}

// UpdateCart applies the bulk quantity form. Each line item looks for its
// qty_<id> field: a positive integer sets the quantity, anything else
// (including a missing field) removes the line.
func (h *CartHandler) UpdateCart(c echo.Context) error {
	ct := readCart(c, h.CookieName)
	if ct == nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/cart")
	}

	updates := make(map[int]string, ct.Len())
	for _, id := range ct.IDs() {
		updates[id] = c.FormValue("qty_" + strconv.Itoa(id))
	}
	ct.SetQuantities(updates)
	writeCart(c, h.CookieName, ct)

	h.publish(c, map[string]any{
		"type":  "cart_updated",
		"items": ct.Len(),
	})

	return c.Redirect(http.StatusFound, h.SiteURL+"/cart?add=done")
}

// Checkout renders the order preview. A request without any cart cookie is
// sent back to the homepage; a present cookie with zero resolvable items
// still gets the (empty) preview.
func (h *CartHandler) Checkout(c echo.Context) error {
	ct := readCart(c, h.CookieName)
	if ct == nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/")
	}

	lines, err := h.resolve(ct)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	total := 0
	for _, l := range lines {
		price := l.Price
		if l.Discounted > 0 {
			price = l.Discounted
		}
		total += price * l.Quantity
	}

	return c.Render(http.StatusOK, "checkout.html", echo.Map{
		"SiteURL": h.SiteURL,
		"Items":   lines,
		"Total":   total,
	})
}
