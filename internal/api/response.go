package api

import (
	"net/http"

	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondError writes err with the status apierr assigns to it.
func RespondError(c *gin.Context, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(apierr.StatusOf(err), ErrorBody{
		Message: msg,
		Code:    apierr.CodeOf(err),
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
