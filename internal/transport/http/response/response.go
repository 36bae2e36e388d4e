package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"halwaipro/internal/domain"
)

// KeyRequestID 与 middleware.RequestID 写入的 key 一致
const KeyRequestID = "X-Request-ID"

// Message 错误统一返回 {"message": "..."}
type Message struct {
	Message string `json:"message"`
}

// Health GET /health
type Health struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error 可以传自定义 msg 覆盖默认
func Error(code int, customMsg string) Message {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	if msg == "" {
		msg = http.StatusText(code)
	}
	return Message{Message: msg}
}

func Abort(c *gin.Context, code int, customMsg string) {
	c.AbortWithStatusJSON(code, Error(code, customMsg))
}

// Fail 业务错误按 Kind 映射；未分类错误记日志，只回 500
func Fail(c *gin.Context, l *zap.Logger, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		if l != nil {
			l.Error("unhandled error",
				zap.String("rid", c.GetString(KeyRequestID)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		_ = c.Error(err)
		Abort(c, http.StatusInternalServerError, "")
		return
	}
	Abort(c, kind.Status(), err.Error())
}
