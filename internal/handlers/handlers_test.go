package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velikanov/storefront/internal/handlers"
	"github.com/velikanov/storefront/internal/hash"
	authmw "github.com/velikanov/storefront/internal/middleware/auth"
	"github.com/velikanov/storefront/internal/models"
	"github.com/velikanov/storefront/internal/session"
	httpserver "github.com/velikanov/storefront/internal/transport/http"
	"github.com/velikanov/storefront/internal/view"
)

const (
	testSecret     = "fCz0yV1kWJp7qBhXAfm3sTgR9uNdE24L"
	cartCookieName = "cart"
	authCookieName = "session"
)

type testEnv struct {
	E     *echo.Echo
	DB    *gorm.DB
	Codec *session.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}, &models.Option{}))

	codec := session.NewCodec(testSecret)
	guard := &authmw.Middleware{
		DB:         db,
		Codec:      codec,
		CookieName: authCookieName,
		LoginURL:   "/admin/login",
	}

	renderer, err := view.New()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.Pre(middleware.RemoveTrailingSlash())

	imageDir := t.TempDir()
	httpserver.Register(e, &httpserver.Deps{
		Shop: &handlers.ShopHandler{DB: db},
		Cart: &handlers.CartHandler{DB: db, CookieName: cartCookieName},
		Auth: &handlers.AuthHandler{
			DB:         db,
			Codec:      codec,
			Auth:       guard,
			CookieName: authCookieName,
		},
		Admin:    &handlers.AdminHandler{DB: db, ImageDir: imageDir},
		Search:   &handlers.SearchHandler{},
		AuthMW:   guard,
		ImageDir: imageDir,
	})

	return &testEnv{E: e, DB: db, Codec: codec}
}

func (env *testEnv) seedProducts(t *testing.T) {
	t.Helper()
	products := []models.Product{
		{ID: 5, Name: "Classic Tee", Slug: "classic-tee", Image: "tee.jpg", Quantity: 10, RegularPrice: 1999},
		{ID: 7, Name: "Canvas Tote", Slug: "canvas-tote", Image: "tote.jpg", Quantity: 5, RegularPrice: 2499, DiscountedPrice: 1899},
	}
	for _, p := range products {
		require.NoError(t, env.DB.Create(&p).Error)
	}
}

func (env *testEnv) seedUser(t *testing.T, username, email, password string, blocked models.Blocked) {
	t.Helper()
	passwordHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, env.DB.Create(&models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Blocked:      blocked,
		Role:         models.RoleAdmin,
	}).Error)
}

func (env *testEnv) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
