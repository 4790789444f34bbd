package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CustomErrorHandler renders every unhandled error as a JSON body. Webhook
// and poll routes catch their own failures before reaching this point; this
// is the last line for anything else.
func CustomErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok && msg != "" {
			message = msg
		}
	}

	c.Logger().Error(err)

	if c.Response().Committed {
		return
	}
	if writeErr := c.JSON(code, map[string]interface{}{"error": message}); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}
