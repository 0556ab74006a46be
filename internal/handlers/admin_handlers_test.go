package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velikanov/storefront/internal/models"
)

// adminSession logs in a fresh admin user and fetches a CSRF token pair
// the way a browser would, by loading the dashboard first.
func adminSession(t *testing.T, env *testEnv) (session, csrf *http.Cookie, token string) {
	t.Helper()
	env.seedUser(t, "admin", "admin@ecommerce.io", "secret", models.BlockedNo)
	value, _ := env.Codec.Issue("admin", false)
	session = &http.Cookie{Name: authCookieName, Value: value}

	rec := env.do(http.MethodGet, "/admin", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	csrf = responseCookie(rec, "XSRF-TOKEN")
	require.NotNil(t, csrf)
	return session, csrf, csrf.Value
}

func TestSaveOptions(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.DB.Create(&models.Option{
		Name:  "site_title",
		Value: "Storefront",
	}).Error)
	session, csrf, token := adminSession(t, env)

	form := url.Values{
		"opt_site_title": {"My Shop"},
		"opt_unknown":    {"ignored"},
		"csrf_token":     {token},
	}
	rec := env.do(http.MethodPost, "/admin/options", form, session, csrf)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/admin/", rec.Header().Get("Location"))

	var opt models.Option
	require.NoError(t, env.DB.Where("option_name = ?", "site_title").First(&opt).Error)
	require.Equal(t, "My Shop", opt.Value)

	// The unknown field did not create an option.
	var count int64
	env.DB.Model(&models.Option{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestSaveOptionsRejectsMissingCSRFToken(t *testing.T) {
	env := newTestEnv(t)
	session, _, _ := adminSession(t, env)

	form := url.Values{"opt_site_title": {"My Shop"}}
	rec := env.do(http.MethodPost, "/admin/options", form, session)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	session, csrf, token := adminSession(t, env)

	form := url.Values{
		"name":          {"Enamel Mug"},
		"slug":          {"enamel-mug"},
		"description":   {"Campfire approved."},
		"quantity":      {"200"},
		"regular_price": {"1299"},
		"csrf_token":    {token},
	}
	rec := env.do(http.MethodPost, "/admin/products", form, session, csrf)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/admin/products?msg=created", rec.Header().Get("Location"))

	var p models.Product
	require.NoError(t, env.DB.Where("slug = ?", "enamel-mug").First(&p).Error)
	require.Equal(t, "Enamel Mug", p.Name)
	require.Equal(t, 1299, p.RegularPrice)
	require.Equal(t, 200, p.Quantity)
}

func TestCreateProductRequiresNameAndSlug(t *testing.T) {
	env := newTestEnv(t)
	session, csrf, token := adminSession(t, env)

	form := url.Values{"name": {"No Slug"}, "csrf_token": {token}}
	rec := env.do(http.MethodPost, "/admin/products", form, session, csrf)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/admin/products?msg=invalid", rec.Header().Get("Location"))
}

func TestUpdateProductAppliesOnlyPostedFields(t *testing.T) {
	env := newTestEnv(t)
	env.seedProducts(t)
	session, csrf, token := adminSession(t, env)

	form := url.Values{
		"regular_price": {"1499"},
		"csrf_token":    {token},
	}
	rec := env.do(http.MethodPost, "/admin/products/5", form, session, csrf)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/admin/products?msg=updated", rec.Header().Get("Location"))

	var p models.Product
	require.NoError(t, env.DB.First(&p, 5).Error)
	require.Equal(t, 1499, p.RegularPrice)
	// Fields absent from the form kept their values.
	require.Equal(t, "Classic Tee", p.Name)
	require.Equal(t, "classic-tee", p.Slug)
	require.Equal(t, 10, p.Quantity)
}

func TestUpdateProductUnknownID(t *testing.T) {
	env := newTestEnv(t)
	session, csrf, token := adminSession(t, env)

	form := url.Values{"name": {"Ghost"}, "csrf_token": {token}}
	rec := env.do(http.MethodPost, "/admin/products/999", form, session, csrf)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	env.seedProducts(t)
	session, csrf, token := adminSession(t, env)

	form := url.Values{"csrf_token": {token}}
	rec := env.do(http.MethodPost, "/admin/products/5/delete", form, session, csrf)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/admin/products?msg=deleted", rec.Header().Get("Location"))

	var count int64
	env.DB.Model(&models.Product{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestProductsPage(t *testing.T) {
	env := newTestEnv(t)
	env.seedProducts(t)
	session, _, _ := adminSession(t, env)

	rec := env.do(http.MethodGet, "/admin/products?msg=created", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Classic Tee")
	require.Contains(t, rec.Body.String(), "Product created")
}
