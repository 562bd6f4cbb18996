package staff

import (
	"errors"

	"github.com/ordertrack/internal/http/response"
	"github.com/ordertrack/internal/service"

	"github.com/gin-gonic/gin"
)

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

var orderTransitionErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrInvalidTransition, code: response.CodeConflict, msg: "order status does not allow this transition"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "not allowed to perform this transition"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
}

func respondOrderTransitionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderTransitionErrorRules, response.CodeInternal, "order update failed")
}
