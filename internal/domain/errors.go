package domain

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindInsufficientStock
)

var kindStatus = map[Kind]int{
	KindInternal:          http.StatusInternalServerError,
	KindValidation:        http.StatusBadRequest,
	KindAuth:              http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusConflict,
	KindInsufficientStock: http.StatusBadRequest,
}

// Status 对应的 HTTP 状态码
func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error 业务错误，边界层据 Kind 映射状态码
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) error  { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }
func InsufficientStock(msg string) error {
	return &Error{Kind: KindInsufficientStock, Message: msg}
}

// KindOf 非 *Error 一律视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, k Kind) bool { return err != nil && KindOf(err) == k }

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "User already exists"
	MsgSweetNotFound      = "Sweet not found"
	MsgUserNotFound       = "User not found"
	MsgInvalidQuantity    = "Invalid quantity"
	MsgInsufficientStock  = "Insufficient stock"
	MsgMissingFields      = "Missing required fields"
)

// ErrDuplicate 仓储层唯一键冲突（users.email）；服务层转成 Conflict
var ErrDuplicate = errors.New("duplicate key")
