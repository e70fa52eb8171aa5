package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-planner/pkg/util"
)

type meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
	Meta    meta       `json:"meta"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data, Meta: metaFor(c)})
}

func respondError(c *gin.Context, status int, body errorBody) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Error: &body, Meta: metaFor(c)})
}

func metaFor(c *gin.Context) meta {
	return meta{
		Timestamp: util.NowUTC().Format(time.RFC3339),
		RequestID: requestIDFrom(c),
	}
}
