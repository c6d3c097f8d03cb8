package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"webbase/internal/auth"
	"webbase/internal/config"
	"webbase/internal/service"
)

// systemErrorMessage is the only wording store failures surface as; raw
// storage errors stay in the server log.
const systemErrorMessage = "System error. Please try again later."

// WebHandler serves the HTML pages and their form submissions.
type WebHandler struct {
	authService  service.AuthService
	sessions     *auth.Manager
	cookieSecure bool
}

// NewWebHandler creates the web page handler layer.
func NewWebHandler(authService service.AuthService, sessions *auth.Manager, cookieSecure bool) *WebHandler {
	return &WebHandler{
		authService:  authService,
		sessions:     sessions,
		cookieSecure: cookieSecure,
	}
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type updateEmailForm struct {
	Email string `form:"email" validate:"required,email"`
}

type changePasswordForm struct {
	CurrentPassword string `form:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required"`
}

type pageFeature struct {
	Icon        string
	Title       string
	Description string
	Link        string
}

// pageData assembles the variables every template expects.
func (h *WebHandler) pageData(c echo.Context, title string) echo.Map {
	identity := auth.IdentityFromContext(c)
	return echo.Map{
		"ServiceName":     config.ServiceName,
		"Version":         config.Version,
		"ServerTime":      formatHumanTime(time.Now().UTC()),
		"Title":           title,
		"User":            identity,
		"IsAuthenticated": identity != nil,
		"Error":           nil,
		"Success":         nil,
	}
}

// Index serves the home page. Renders differently for guests and members.
func (h *WebHandler) Index(c echo.Context) error {
	data := h.pageData(c, "Home")
	data["Features"] = []pageFeature{
		{Icon: "🚀", Title: "Fast & Efficient", Description: "Small, explicit Go service with no magic."},
		{Icon: "🔐", Title: "Authentication Ready", Description: "Session-backed login with memory-hard password hashing."},
		{Icon: "📡", Title: "API Ready", Description: "JSON endpoints with documented schemas out of the box."},
		{Icon: "🎨", Title: "Server Rendered", Description: "Embedded HTML templates, no frontend build step."},
	}
	return c.Render(http.StatusOK, "index.html", data)
}

// Landing serves the marketing landing page.
func (h *WebHandler) Landing(c echo.Context) error {
	data := h.pageData(c, "Welcome")
	data["Headline"] = "A modern Go web application template"
	data["Tagline"] = "A production-ready foundation for building small, secure web applications."
	data["Features"] = []pageFeature{
		{Title: "Modern Architecture", Description: "Echo, GORM and Redis wired the boring, dependable way.", Link: "/api/hello"},
		{Title: "Authentication Ready", Description: "Complete user authentication with database-backed sessions.", Link: "/login"},
		{Title: "Production Ready", Description: "Health checks, migrations and comprehensive tests included.", Link: "/health"},
	}
	return c.Render(http.StatusOK, "landing.html", data)
}

// LoginPage serves the login form. Signed-in users are sent home.
func (h *WebHandler) LoginPage(c echo.Context) error {
	if auth.IdentityFromContext(c) != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	data := h.pageData(c, "Login")
	data["Username"] = ""
	return c.Render(http.StatusOK, "login.html", data)
}

// Login handles the login form submission. Every rejection renders the same
// message, so responses cannot distinguish unknown users from wrong
// passwords.
func (h *WebHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.renderLoginError(c, "", "Username and password are required")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderLoginError(c, form.Username, "Username and password are required")
	}

	identity, err := h.authService.Authenticate(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return h.renderLoginError(c, form.Username, "Invalid username or password")
		}
		log.Printf("login: %v", err)
		return h.renderLoginError(c, form.Username, systemErrorMessage)
	}

	token, err := h.sessions.Create(c.Request().Context(), identity)
	if err != nil {
		log.Printf("create session: %v", err)
		return h.renderLoginError(c, form.Username, systemErrorMessage)
	}

	h.setSessionCookie(c, token, int(auth.InactivityWindow.Seconds()))
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout destroys the session and clears the cookie. Safe to call without a
// session.
func (h *WebHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(c.Request().Context(), cookie.Value); err != nil {
			log.Printf("logout: %v", err)
		}
	}
	h.setSessionCookie(c, "", -1)
	return c.Redirect(http.StatusSeeOther, auth.LoginPath)
}

// ProfilePage serves the profile page. Runs behind RequireAuth.
func (h *WebHandler) ProfilePage(c echo.Context) error {
	return c.Render(http.StatusOK, "profile.html", h.pageData(c, "Profile"))
}

// ProfileUpdate dispatches the profile form by its explicit action tag:
// update_profile updates the email, change_password goes through the
// current-password check. Runs behind RequireAuth.
func (h *WebHandler) ProfileUpdate(c echo.Context) error {
	data := h.pageData(c, "Profile")

	switch c.FormValue("action") {
	case "update_profile":
		h.handleEmailUpdate(c, data)
	case "change_password":
		h.handlePasswordChange(c, data)
	default:
		data["Error"] = "Unknown profile action"
	}

	return c.Render(http.StatusOK, "profile.html", data)
}

func (h *WebHandler) handleEmailUpdate(c echo.Context, data echo.Map) {
	identity := auth.IdentityFromContext(c)

	var form updateEmailForm
	if err := c.Bind(&form); err != nil {
		data["Error"] = "Please enter a valid email address"
		return
	}
	if err := c.Validate(&form); err != nil {
		data["Error"] = "Please enter a valid email address"
		return
	}

	changed, err := h.authService.UpdateProfile(c.Request().Context(), identity.ID, form.Email)
	if err != nil {
		log.Printf("update profile: %v", err)
		data["Error"] = systemErrorMessage
		return
	}
	if !changed {
		data["Error"] = "Failed to update profile"
		return
	}

	// Keep the session's identity snapshot in step with the store; this is
	// the one invalidation path for the cached copy.
	identity.Email = form.Email
	token := auth.TokenFromContext(c)
	if err := h.sessions.RefreshIdentity(c.Request().Context(), token, identity); err != nil {
		log.Printf("refresh session identity: %v", err)
	}

	data["Success"] = "Profile updated successfully!"
}

func (h *WebHandler) handlePasswordChange(c echo.Context, data echo.Map) {
	identity := auth.IdentityFromContext(c)

	var form changePasswordForm
	if err := c.Bind(&form); err != nil {
		data["Error"] = "All password fields are required"
		return
	}
	if err := c.Validate(&form); err != nil {
		data["Error"] = "All password fields are required"
		return
	}

	if form.NewPassword != form.ConfirmPassword {
		data["Error"] = "New passwords do not match"
		return
	}

	err := h.authService.ChangePassword(c.Request().Context(), identity.ID, form.CurrentPassword, form.NewPassword)
	switch err {
	case nil:
		data["Success"] = "Password changed successfully!"
	case service.ErrCurrentPasswordIncorrect:
		data["Error"] = "Current password is incorrect"
	case service.ErrPasswordTooShort:
		data["Error"] = "Password must be at least 8 characters"
	default:
		log.Printf("change password: %v", err)
		data["Error"] = systemErrorMessage
	}
}

func (h *WebHandler) renderLoginError(c echo.Context, username, message string) error {
	data := h.pageData(c, "Login")
	data["Username"] = username
	data["Error"] = message
	return c.Render(http.StatusOK, "login.html", data)
}

func (h *WebHandler) setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
