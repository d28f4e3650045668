package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-order-app/middlewares"
	"github.com/yeremiapane/cafe-order-app/services"
	"github.com/yeremiapane/cafe-order-app/utils"
)

// respondServiceError memetakan sentinel error service ke kode HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTableContextRequired),
		errors.Is(err, services.ErrNotHost),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotYourItem),
		errors.Is(err, services.ErrNotYourOrder):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrGuestNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrSessionConflict),
		errors.Is(err, services.ErrOrderNotCancellable):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrCartEmpty):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("Unhandled service error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// requestInfo menyalin identitas device dari konteks middleware ke bentuk
// yang diterima service.
func requestInfo(ctx middlewares.TableContext) services.RequestInfo {
	return services.RequestInfo{
		DeviceID:  ctx.DeviceID,
		IP:        ctx.IP,
		UserAgent: ctx.UserAgent,
	}
}

// requireTableContext mengambil konteks meja atau menolak request dengan
// instruksi scan ulang.
func requireTableContext(c *gin.Context) (middlewares.TableContext, bool) {
	ctx := middlewares.GetTableContext(c)
	if !ctx.HasTable() {
		respondServiceError(c, services.ErrTableContextRequired)
		return ctx, false
	}
	return ctx, true
}
