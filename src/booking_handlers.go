package main

import (
	"errors"
	"net/http"

	"tickethub/src/common"
	"tickethub/src/types"

	"github.com/gin-gonic/gin"
)

// statusForError maps the service sentinels to HTTP statuses. Unknown errors
// surface as 500 without leaking detail.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrEventNotFound),
		errors.Is(err, common.ErrBookingNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrAccessDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrEventNotActive),
		errors.Is(err, common.ErrNotEnoughTickets),
		errors.Is(err, common.ErrVenueConflict),
		errors.Is(err, common.ErrPaymentNotCompleted):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, common.ErrBookingAlreadyPaid),
		errors.Is(err, common.ErrSweepInProgress):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func abortWithError(ctx *gin.Context, err error) {
	status, msg := statusForError(err)
	ctx.JSON(status, gin.H{"error": msg})
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			booking, err := common.CreateBooking(userID, &body)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			bookings, err := common.ListBookings(userID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			booking, err := common.GetBooking(params.ID, userID, role)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/confirm", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ConfirmBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			booking, err := common.ConfirmPayment(params.ID, userID, body.PaymentID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}
