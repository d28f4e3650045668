package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cafe-order-app/utils"
)

// RequireRoles membatasi route ke role staff tertentu. Dipakai setelah
// AuthMiddleware yang mengisi "role" di context.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, _ := c.Get("role")
		role, _ := roleValue.(string)

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, errors.New("anda tidak punya akses ke resource ini"))
		c.Abort()
	}
}
