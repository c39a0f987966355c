package httpserver

import "github.com/gin-gonic/gin"

// response is the storefront envelope, the same {message, data, meta?}
// shape the platform API uses, so the UI unwraps one format.
type response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, response{Message: message, Data: data})
}

func respondWithMeta(c *gin.Context, code int, message string, data, meta interface{}) {
	c.JSON(code, response{Message: message, Data: data, Meta: meta})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, response{Message: message})
}
