package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddToCartSetsCookie(t *testing.T) {
	env := newTestEnv(t)
	env.seedProducts(t)

	rec := env.do(http.MethodGet, "/addtocart?product=5", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/cart?add=done", rec.Header().Get("Location"))

	cookie := responseCookie(rec, cartCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, "5:1", cookie.Value)
	require.False(t, cookie.Expires.IsZero())

	// Adding the same product again increments the quantity.
	rec = env.do(http.MethodGet, "/addtocart?product=5", nil, cookie)
	cookie = responseCookie(rec, cartCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, "5:2", cookie.Value)
}

func TestAddToCartInvalidProduct(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/addtocart", "/addtocart?product=abc", "/addtocart?product=0", "/addtocart?product=-3"} {
		rec := env.do(http.MethodGet, target, nil)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/cart?add=invalid", rec.Header().Get("Location"))
		require.Nil(t, responseCookie(rec, cartCookieName))
	}
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/removefromcart?product=5", nil,
		&http.Cookie{Name: cartCookieName, Value: "5:2|7:1"})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/cart?remove=done", rec.Header().Get("Location"))

	cookie := responseCookie(rec, cartCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, "7:1", cookie.Value)
}

func TestRemoveFromCartWithoutCookie(t *testing.T) {
	env := newTestEnv(t)

	// Idempotent removal: no cart cookie stays no cart cookie.
	rec := env.do(http.MethodGet, "/removefromcart?product=5", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/cart?remove=done", rec.Header().Get("Location"))
	require.Nil(t, responseCookie(rec, cartCookieName))
}

func TestRemoveLastItemDeletesCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/removefromcart?product=5", nil,
		&http.Cookie{Name: cartCookieName, Value: "5:2"})

	cookie := responseCookie(rec, cartCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, "", cookie.Value)
	require.Less(t, cookie.MaxAge, 0)
}

func TestUpdateCart(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"qty_5": {"3"}}
	rec := env.do(http.MethodPost, "/updatecart", form,
		&http.Cookie{Name: cartCookieName, Value: "5:2|7:1"})
	require.Equal(t, http.StatusFound, rec.Code)

	// 7 had no field in the form, so its line item is gone.
	cookie := responseCookie(rec, cartCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, "5:3", cookie.Value)
}

func TestUpdateCartZeroQuantityRemoves(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"qty_5": {"0"}, "qty_7": {"2"}}
	rec := env.do(http.MethodPost, "/updatecart", form,
		&http.Cookie{Name: cartCookieName, Value: "5:2|7:1"})

	cookie := responseCookie(rec, cartCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, "7:2", cookie.Value)
}

func TestCartPageRendersItems(t *testing.T) {
	env := newTestEnv(t)
	env.seedProducts(t)

	rec := env.do(http.MethodGet, "/cart", nil,
		&http.Cookie{Name: cartCookieName, Value: "5:2|7:1"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "Classic Tee")
	require.Contains(t, body, "Canvas Tote")
	require.Contains(t, body, `name="qty_5" value="2"`)
}

func TestCartPageMalformedCookie(t *testing.T) {
	env := newTestEnv(t)
	env.seedProducts(t)

	// Garbage entries degrade to "ignore the bad token", never an error.
	rec := env.do(http.MethodGet, "/cart", nil,
		&http.Cookie{Name: cartCookieName, Value: "junk|abc:2|5:1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Classic Tee")
	require.NotContains(t, rec.Body.String(), "Canvas Tote")
}

func TestCheckoutRedirectsWithoutCartCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCheckoutPreview(t *testing.T) {
	env := newTestEnv(t)
	env.seedProducts(t)

	rec := env.do(http.MethodGet, "/checkout", nil,
		&http.Cookie{Name: cartCookieName, Value: "5:2|7:1"})
	require.Equal(t, http.StatusOK, rec.Code)

	// 2 * 19.99 + 1 * 18.99 (discounted price wins) = 58.97
	require.Contains(t, rec.Body.String(), "58.97")
}

func TestProductDetailUnknownSlug(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/product/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "404 Not Found")
}
