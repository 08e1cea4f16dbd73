package utils

import "github.com/gin-gonic/gin"

// Envelope is the uniform success body: { statusCode, data, message }.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}

// ErrorEnvelope is the uniform error body. Errors carries field-level detail
// when present; stack traces never leave the process.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

// Respond writes the success envelope with the given status.
func Respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{StatusCode: status, Data: data, Message: message})
}

// Fail writes the error envelope and aborts the handler chain.
func Fail(c *gin.Context, status int, message string, errs ...string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{StatusCode: status, Message: message, Errors: errs})
}
