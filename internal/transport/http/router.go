package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velikanov/storefront/internal/handlers"
	authmw "github.com/velikanov/storefront/internal/middleware/auth"
	"github.com/velikanov/storefront/internal/middleware/csrf"
)

type Deps struct {
	Shop   *handlers.ShopHandler
	Cart   *handlers.CartHandler
	Auth   *handlers.AuthHandler
	Admin  *handlers.AdminHandler
	Search *handlers.SearchHandler

	AuthMW   *authmw.Middleware
	Registry *prometheus.Registry
	ImageDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if d.Registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}
	e.Static("/images", d.ImageDir)

	e.GET("/", d.Shop.Home)
	e.GET("/product/:slug", d.Shop.ProductDetail)

	e.GET("/cart", d.Cart.CartPage)
	e.POST("/cart", d.Cart.CartPage)
	e.GET("/addtocart", d.Cart.AddToCart)
	e.POST("/addtocart", d.Cart.AddToCart)
	e.GET("/removefromcart", d.Cart.RemoveFromCart)
	e.POST("/removefromcart", d.Cart.RemoveFromCart)
	e.POST("/updatecart", d.Cart.UpdateCart)
	e.GET("/checkout", d.Cart.Checkout)
	e.POST("/checkout", d.Cart.Checkout)

	e.GET("/search", d.Search.Search)

	e.GET("/login", d.Auth.LoginForm)
	e.GET("/logout", d.Auth.Logout)

	admin := e.Group("/admin")
	admin.GET("/login", d.Auth.LoginForm)
	admin.POST("/login", d.Auth.Login)
	admin.GET("/logout", d.Auth.Logout)

	protected := admin.Group("", csrf.Middleware(csrf.Config{
		SkipPaths: []string{"/admin/login"},
	}), d.AuthMW.RequireLogin)

	protected.GET("", d.Admin.Dashboard)
	protected.POST("/options", d.Admin.SaveOptions)
	protected.GET("/products", d.Admin.Products)
	protected.POST("/products", d.Admin.CreateProduct)
	protected.POST("/products/:id", d.Admin.UpdateProduct)
	protected.POST("/products/:id/delete", d.Admin.DeleteProduct)
}
