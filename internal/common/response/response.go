// Package response writes the two JSON envelopes every endpoint returns.
package response

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"food-delivery/internal/common/apperr"
	"food-delivery/internal/common/logger"

	"github.com/gin-gonic/gin"
)

var fallback atomic.Pointer[logger.Logger]

func init() { fallback.Store(logger.New("http")) }

// SetLogger replaces the logger used for requests that carry none of their own.
func SetLogger(lg *logger.Logger) {
	if lg != nil {
		fallback.Store(lg)
	}
}

type Success struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type Problem struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func OK(c *gin.Context, data any) { JSON(c, http.StatusOK, data) }

func Created(c *gin.Context, data any) { JSON(c, http.StatusCreated, data) }

func JSON(c *gin.Context, code int, data any) {
	c.JSON(code, Success{Message: "Success", Data: data})
}

// Fail writes an error envelope with an explicit code.
func Fail(c *gin.Context, code int, details string) {
	c.AbortWithStatusJSON(code, Problem{Error: statusLine(code), Details: details})
}

// Error maps err to its kind. Internal causes are logged, never returned.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logger.FromGin(c, fallback.Load()).Error("request_failed", err, map[string]any{
			"path": c.FullPath(),
		})
	}
	Fail(c, apperr.HTTPStatus(kind), apperr.Message(err))
}

func statusLine(code int) string { return fmt.Sprintf("%d %s", code, http.StatusText(code)) }
