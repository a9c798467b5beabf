package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"memberdir/internal/handler"
)

// Register wires routes and middleware.
func Register(e *echo.Echo, memberHandler *handler.MemberHandler) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Uncaught errors (storage failures and the like) still get the
	// rendered error page rather than Echo's JSON default.
	e.HTTPErrorHandler = errorPageHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/", memberHandler.Index)
	e.GET("/register", memberHandler.RegisterForm)
	e.POST("/register", memberHandler.Register)
	e.GET("/login", memberHandler.LoginForm)
	e.POST("/login", memberHandler.Login)
	e.GET("/edit_profile/:id", memberHandler.EditProfileForm)
	e.POST("/edit_profile/:id", memberHandler.EditProfile)
	e.GET("/delete/:id", memberHandler.Delete)
	e.GET("/welcome/:id", memberHandler.Welcome)
}

func errorPageHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if renderErr := c.Render(status, "error.html", echo.Map{"Message": message}); renderErr != nil {
		c.Logger().Error(renderErr)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
