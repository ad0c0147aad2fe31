package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/typedflow/validation"
)

// MaxKeyLength is the longest key, in characters, the API accepts.
const MaxKeyLength = 256

func keyParam(c *gin.Context) (string, error) {
	key := c.Param("key")
	v := validation.New().
		Required("key", key).
		ValidUTF8("key", key).
		MaxLength("key", key, MaxKeyLength)
	if appErr := v.Validate(); appErr != nil {
		return "", appErr
	}
	return key, nil
}
