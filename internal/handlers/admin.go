package handlers

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/velikanov/storefront/internal/events"
	"github.com/velikanov/storefront/internal/logging"
	authmw "github.com/velikanov/storefront/internal/middleware/auth"
	"github.com/velikanov/storefront/internal/middleware/csrf"
	"github.com/velikanov/storefront/internal/models"
	"github.com/velikanov/storefront/internal/search"
)

// AdminHandler serves the dashboard and the product/option management
// pages behind the auth middleware.
type AdminHandler struct {
	DB       *gorm.DB
	ES       *elasticsearch.Client
	Producer *events.Producer
	ImageDir string
	SiteURL  string
}

func (h *AdminHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProduct, c.RealIP(), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *AdminHandler) index(c echo.Context, p models.Product) {
	if err := search.IndexProduct(c.Request().Context(), h.ES, p); err != nil {
		logging.FromContext(c.Request().Context()).Error("search index failed", "error", err, "product_id", p.ID)
	}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	user := authmw.UserFromContext(c)

	var productCount, userCount int64
	h.DB.Model(&models.Product{}).Count(&productCount)
	h.DB.Model(&models.User{}).Count(&userCount)

	var options []models.Option
	h.DB.Order("option_name ASC").Find(&options)

	return c.Render(http.StatusOK, "dashboard.html", echo.Map{
		"SiteURL":      h.SiteURL,
		"User":         user,
		"ProductCount": productCount,
		"UserCount":    userCount,
		"Options":      options,
		"CSRFToken":    csrf.Token(c),
	})
}

// SaveOptions writes the dashboard options form back. Only options that
// already exist are updated; value assignment is explicit.
func (h *AdminHandler) SaveOptions(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var options []models.Option
	if err := h.DB.Find(&options).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	for i := range options {
		field := "opt_" + options[i].Name
		values, ok := params[field]
		if !ok || len(values) == 0 || values[0] == options[i].Value {
			continue
		}
		options[i].Value = values[0]
		if err := h.DB.Save(&options[i]).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
	}

	return c.Redirect(http.StatusFound, h.SiteURL+"/admin/")
}

func (h *AdminHandler) Products(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Order("id ASC").Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	status, msg := "", ""
	switch c.QueryParam("msg") {
	case "created":
		status, msg = "success", "Product created"
	case "updated":
		status, msg = "success", "Product updated"
	case "deleted":
		status, msg = "success", "Product deleted"
	case "invalid":
		status, msg = "error", "Invalid product data"
	}

	return c.Render(http.StatusOK, "admin_products.html", echo.Map{
		"SiteURL":   h.SiteURL,
		"Products":  products,
		"Status":    status,
		"Msg":       msg,
		"CSRFToken": csrf.Token(c),
	})
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if name == "" || slug == "" {
		return c.Redirect(http.StatusFound, h.SiteURL+"/admin/products?msg=invalid")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/admin/products?msg=invalid")
	}

	product := models.Product{
		Name:            name,
		Slug:            slug,
		Description:     c.FormValue("description"),
		Image:           image,
		Quantity:        atoiDefault(c.FormValue("quantity"), 0),
		RegularPrice:    atoiDefault(c.FormValue("regular_price"), 0),
		DiscountedPrice: atoiDefault(c.FormValue("discounted_price"), 0),
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.index(c, product)
	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.Redirect(http.StatusFound, h.SiteURL+"/admin/products?msg=created")
}

// UpdateProduct applies only the form fields that were actually posted,
// through an explicit patch struct.
func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/admin/products?msg=invalid")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return RenderError(c, http.StatusNotFound, h.SiteURL)
	}

	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	patch := models.ProductPatch{}
	if v, ok := formString(params, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formString(params, "slug"); ok {
		patch.Slug = &v
	}
	if v, ok := formString(params, "description"); ok {
		patch.Description = &v
	}
	if v, ok := formInt(params, "quantity"); ok {
		patch.Quantity = &v
	}
	if v, ok := formInt(params, "regular_price"); ok {
		patch.RegularPrice = &v
	}
	if v, ok := formInt(params, "discounted_price"); ok {
		patch.DiscountedPrice = &v
	}
	if image, err := h.saveImage(c); err == nil && image != "" {
		patch.Image = &image
	}

	if patch.Apply(&product) > 0 {
		if err := h.DB.Save(&product).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
	}

	h.index(c, product)
	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.Redirect(http.StatusFound, h.SiteURL+"/admin/products?msg=updated")
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.Redirect(http.StatusFound, h.SiteURL+"/admin/products?msg=invalid")
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	if err := search.DeleteProduct(c.Request().Context(), h.ES, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("search delete failed", "error", err, "product_id", id)
	}
	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return c.Redirect(http.StatusFound, h.SiteURL+"/admin/products?msg=deleted")
}

// saveImage stores an uploaded product image under a random filename and
// returns the name. No upload is not an error; the name is empty then.
func (h *AdminHandler) saveImage(c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	if err := os.MkdirAll(h.ImageDir, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(h.ImageDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return v
	}
	return def
}

func formString(params map[string][]string, key string) (string, bool) {
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func formInt(params map[string][]string, key string) (int, bool) {
	s, ok := formString(params, key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}
