package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName carries the session token.
const CookieName = "token"

// CookieTransport binds the session token to an HTTP-only cookie.
type CookieTransport struct {
	secure   bool
	sameSite http.SameSite
	maxAge   int
}

// NewCookieTransport builds the transport. Production cookies are Secure and
// SameSite=None so the separately hosted frontend can send them.
func NewCookieTransport(production bool, ttl time.Duration) *CookieTransport {
	t := &CookieTransport{
		sameSite: http.SameSiteLaxMode,
		maxAge:   int(ttl.Seconds()),
	}
	if production {
		t.secure = true
		t.sameSite = http.SameSiteNoneMode
	}
	return t
}

// Name returns the cookie name.
func (t *CookieTransport) Name() string {
	return CookieName
}

// Attach sets the session cookie on the response.
func (t *CookieTransport) Attach(c echo.Context, token string) {
	cookie := t.cookie(token, t.maxAge)
	cookie.Expires = time.Now().Add(time.Duration(t.maxAge) * time.Second)
	c.SetCookie(cookie)
}

// Clear expires the session cookie. Attributes must match Attach or browsers
// keep the original.
func (t *CookieTransport) Clear(c echo.Context) {
	cookie := t.cookie("", -1)
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
}

func (t *CookieTransport) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: t.sameSite,
	}
}
