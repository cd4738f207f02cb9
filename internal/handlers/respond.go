package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/campusmart/internal/middleware"
	"github.com/01moynul/campusmart/internal/service"
)

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondError maps a service error to its status code. Internal details
// are logged, never sent.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = service.Internal(err)
	}

	switch se.Kind {
	case service.KindValidation:
		respondMessage(c, http.StatusBadRequest, se.Message)
	case service.KindUnauthorized:
		respondMessage(c, http.StatusUnauthorized, se.Message)
	case service.KindForbidden:
		respondMessage(c, http.StatusForbidden, se.Message)
	case service.KindNotFound:
		respondMessage(c, http.StatusNotFound, se.Message)
	case service.KindConflict:
		log.Printf("handlers: %s %s: %v", c.Request.Method, c.FullPath(), se)
		detail := ""
		if se.Err != nil {
			detail = se.Err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": se.Message, "error": detail})
	default:
		log.Printf("handlers: %s %s: %v", c.Request.Method, c.FullPath(), se)
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}

// identity returns what AuthMiddleware put on the context.
func identity(c *gin.Context) (int64, string) {
	return c.GetInt64(middleware.CtxUserID), c.GetString(middleware.CtxUserRole)
}

// pathID parses a numeric path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondMessage(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// optionalID reads an optional positive integer query parameter.
func optionalID(c *gin.Context, name string) *int64 {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func formString(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}
