package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

func respond(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, model.ResponseApi{ApiMessage: msg, Data: data})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ResponseApi{ApiMessage: "Invalid request: " + err.Error()})
}

// fail renders err. Validation problems are listed per field; storage and
// unknown failures are logged and hidden behind a generic message.
func fail(c *gin.Context, logger *zap.Logger, err error) {
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, model.ResponseApi{ApiMessage: "Validation failed", Errors: verrs})
		return
	}

	status := apperror.StatusCode(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, model.ResponseApi{ApiMessage: "Internal server error"})
		return
	}

	c.JSON(status, model.ResponseApi{ApiMessage: err.Error()})
}

func queryBool(c *gin.Context, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperror.InvalidParam{Param: []string{key}}
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
