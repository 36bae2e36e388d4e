package ez

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"halwaipro/internal/domain"
	mdw "halwaipro/internal/transport/http/middleware"
	resp "halwaipro/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// EZ 路由分组 + 日志 + 鉴权中间件
type EZ struct {
	g    *gin.RouterGroup
	l    *zap.Logger
	gate gin.HandlerFunc
}

func New(g *gin.RouterGroup, l *zap.Logger, gate gin.HandlerFunc) EZ {
	registerValidators()
	return EZ{g: g, l: l, gate: gate}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string        // "GET" | "POST" | "PUT" | "DELETE"
	Path    string        // 例："/auth/login"、"/sweets/:id/purchase"
	Binder  Binder        // 绑定方式
	Auth    bool          // 是否要求登录
	Roles   []domain.Role // 限定角色（可选，隐含 Auth）
	Status  int           // 成功状态码，默认 200
	Pre     []gin.HandlerFunc
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	var chain []gin.HandlerFunc
	if a.Auth || len(a.Roles) > 0 {
		if e.gate == nil {
			panic("ez: auth action " + a.Path + " registered without gate")
		}
		chain = append(chain, e.gate)
	}
	if len(a.Roles) > 0 {
		chain = append(chain, mdw.Authorize(a.Roles...))
	}
	chain = append(chain, a.Pre...)

	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			resp.Fail(c, e.l, BindError(bindErr))
			return
		}

		// 2) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, e.l, err)
			return
		}
		c.JSON(status, out)
	}
	chain = append(chain, h)

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, chain...)
	case http.MethodPut:
		e.g.PUT(a.Path, chain...)
	case http.MethodPatch:
		e.g.PATCH(a.Path, chain...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, chain...)
	default: // 默认 POST
		e.g.POST(a.Path, chain...)
	}
}

// BindError 绑定/校验失败统一转成 400
func BindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if fe.Tag() == "required" {
				return domain.Validation(domain.MsgMissingFields)
			}
		}
		return domain.Validation("Invalid value for " + ve[0].Field())
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return domain.Validation("Request body too large")
	}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.Validation("Invalid request body")
	}
	return domain.Validation(err.Error())
}

var validatorsOnce sync.Once

// 自定义校验：sweetcategory / role；字段名用 json tag
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("sweetcategory", func(fl validator.FieldLevel) bool {
			return domain.Category(strings.TrimSpace(fl.Field().String())).Valid()
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			_, ok := domain.ParseRole(fl.Field().String())
			return ok
		})
	})
}
