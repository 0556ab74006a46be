package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/velikanov/storefront/internal/cart"
)

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func deleteCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// readCart decodes the request's cart cookie. nil means the cookie was not
// sent at all, which callers treat differently from an empty cart.
func readCart(c echo.Context, name string) *cart.Cart {
	cookie, err := c.Cookie(name)
	if err != nil {
		return nil
	}
	return cart.Parse(cookie.Value)
}

// writeCart serializes the cart into the response cookie with the fixed
// far-future expiry. An empty cart deletes the cookie instead, since an
// absent cookie and an empty value mean the same thing to the parser.
func writeCart(c echo.Context, name string, ct *cart.Cart) {
	value := ct.Encode()
	if value == "" {
		deleteCookie(c, name)
		return
	}
	c.SetCookie(CreateCookie(name, value, "/", time.Now().Add(cart.CookieTTL*time.Second)))
}

var emailRe = regexp.MustCompile(`^[a-z0-9]+[._]?[a-z0-9]+@\w+\.\w{2,3}$`)

func isEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "@") {
		return false
	}
	return emailRe.MatchString(s)
}
