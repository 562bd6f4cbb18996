package public

import (
	handlershared "github.com/ordertrack/internal/http/handlers/shared"
	"github.com/ordertrack/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

func getUserRole(c *gin.Context) string {
	return handlershared.GetContextString(c, "user_role")
}

func getActor(c *gin.Context) (service.Actor, bool) {
	uid, ok := getUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{ID: uid, Role: getUserRole(c)}, true
}
