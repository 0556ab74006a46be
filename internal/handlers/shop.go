package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/velikanov/storefront/internal/models"
)

// ShopHandler serves the public catalog pages.
type ShopHandler struct {
	DB      *gorm.DB
	SiteURL string
}

func (h *ShopHandler) siteTitle() string {
	var opt models.Option
	if err := h.DB.Where("option_name = ?", "site_title").First(&opt).Error; err == nil && opt.Value != "" {
		return opt.Value
	}
	return "Storefront"
}

func (h *ShopHandler) Home(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Order("id ASC").Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.Render(http.StatusOK, "index.html", echo.Map{
		"SiteURL":   h.SiteURL,
		"SiteTitle": h.siteTitle(),
		"Products":  products,
	})
}

func (h *ShopHandler) ProductDetail(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return RenderError(c, http.StatusNotFound, h.SiteURL)
	}

	var product models.Product
	if err := h.DB.Where("slug = ?", slug).First(&product).Error; err != nil {
		return RenderError(c, http.StatusNotFound, h.SiteURL)
	}

	var others []models.Product
	h.DB.Where("id <> ?", product.ID).Order("RANDOM()").Limit(5).Find(&others)

	return c.Render(http.StatusOK, "product.html", echo.Map{
		"SiteURL": h.SiteURL,
		"Product": product,
		"Others":  others,
	})
}

// RenderError writes the shared error page for the given status code.
func RenderError(c echo.Context, code int, siteURL string) error {
	titles := map[int]string{
		http.StatusBadRequest:          "Bad Request",
		http.StatusForbidden:           "Forbidden",
		http.StatusNotFound:            "Not Found",
		http.StatusMethodNotAllowed:    "Method Not Allowed",
		http.StatusInternalServerError: "Internal Server Error",
	}
	title, ok := titles[code]
	if !ok {
		title = http.StatusText(code)
	}

	return c.Render(code, "error.html", echo.Map{
		"SiteURL": siteURL,
		"Title":   title,
		"Msg":     strconv.Itoa(code) + " " + title,
	})
}
