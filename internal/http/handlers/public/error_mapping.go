package public

import (
	"errors"

	"github.com/ordertrack/internal/http/response"
	"github.com/ordertrack/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyOrder, code: response.CodeBadRequest, msg: "order must contain at least one item"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "item quantity must be positive"},
	{target: service.ErrInvalidProduct, code: response.CodeBadRequest, msg: "item references an unknown or unavailable product"},
}

var orderLookupErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "not allowed to access this order"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrEmailTaken, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "password does not meet the policy"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "account disabled"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "order create failed")
}

func respondOrderLookupError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderLookupErrorRules, response.CodeInternal, "order fetch failed")
}

func respondAuthError(c *gin.Context, err error) {
	respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "authentication failed")
}
