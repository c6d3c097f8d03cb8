package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"webbase/internal/auth"
	"webbase/internal/handler"
	"webbase/web"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	sessions *auth.Manager,
	webHandler *handler.WebHandler,
	apiHandler *handler.APIHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	optional := auth.OptionalAuth(sessions)
	required := auth.RequireAuth(sessions)

	// Pages
	e.GET("/", webHandler.Index, optional)
	e.GET("/landing", webHandler.Landing, optional)
	e.GET("/login", webHandler.LoginPage, optional)
	e.POST("/login", webHandler.Login, optional)
	e.POST("/logout", webHandler.Logout, optional)
	e.GET("/profile", webHandler.ProfilePage, required)
	e.POST("/profile", webHandler.ProfileUpdate, required)

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/hello", apiHandler.Hello)
	api.GET("/categories", apiHandler.ListCategories)
	api.GET("/categories/:id", apiHandler.GetCategory)
	api.GET("/items", apiHandler.ListItems)
	api.GET("/items/:id", apiHandler.GetItem)

	e.GET("/health", apiHandler.Health)

	e.RouteNotFound("/*", apiHandler.NotFound)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
