// Package httperr carries unexpected failures (panics, unmapped errors) to the
// error-handling middleware. Booking and trip rejections don't come through
// here; the API handlers map those to statuses directly.
package httperr

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	// Detail carries structured context, e.g. an eligibility decision.
	Detail any `json:"detail,omitempty"`
}

// AbortWithError records the original error on the gin context for the logging
// middleware and writes the envelope to the client.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
