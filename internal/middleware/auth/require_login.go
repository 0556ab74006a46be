// Package auth guards the admin area. The auth cookie is the only session
// state: the middleware validates its signature, resolves the subject
// against the users table and rejects blocked accounts. Every failure
// looks the same to the client: a redirect to the login page.
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/velikanov/storefront/internal/models"
	"github.com/velikanov/storefront/internal/session"
)

// ContextKey is where RequireLogin stores the resolved *models.User.
const ContextKey = "user"

type Middleware struct {
	DB         *gorm.DB
	Codec      *session.Codec
	CookieName string
	LoginURL   string
}

// CurrentUser resolves the request's auth cookie to an active user.
func (m *Middleware) CurrentUser(c echo.Context) (*models.User, bool) {
	cookie, err := c.Cookie(m.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	subject, ok := m.Codec.Validate(cookie.Value)
	if !ok {
		return nil, false
	}

	var user models.User
	if err := m.DB.Where("username = ?", subject).First(&user).Error; err != nil {
		return nil, false
	}
	if user.IsBlocked() {
		return nil, false
	}

	return &user, true
}

func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := m.CurrentUser(c)
		if !ok {
			return c.Redirect(http.StatusFound, m.LoginURL+"?msg=1")
		}
		c.Set(ContextKey, user)
		return next(c)
	}
}

// UserFromContext returns the user stored by RequireLogin.
func UserFromContext(c echo.Context) *models.User {
	if u, ok := c.Get(ContextKey).(*models.User); ok {
		return u
	}
	return nil
}
