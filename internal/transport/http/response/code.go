package response

import "net/http"

// CodeMsgMap 状态码 → 默认提示语
var CodeMsgMap = map[int]string{
	http.StatusOK:                    "OK",
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not Found",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too Many Requests",
	http.StatusInternalServerError:   "Internal Server Error",
	http.StatusServiceUnavailable:    "Server Busy",
	http.StatusGatewayTimeout:        "Timeout",
}
