package main

import (
	"net/http"

	"tickethub/src/common"
	"tickethub/src/types"

	"github.com/gin-gonic/gin"
)

func adminHandlers(g *gin.RouterGroup, d *common.Dispatcher) *gin.RouterGroup {
	g.
		GET("/admin/stats", func(ctx *gin.Context) {
			stats, err := common.GetAdminStats(ctx.Request.Context())
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		}).
		GET("/admin/bookings", func(ctx *gin.Context) {
			bookings, err := common.ListAllBookings()
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/admin/pending-bookings", func(ctx *gin.Context) {
			bookings, err := common.ListPendingBookings()
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		POST("/admin/send-payment-reminders", func(ctx *gin.Context) {
			force := ctx.Query("force") == "true"
			results, err := d.SendPaymentReminders(force)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": results})
		}).
		POST("/admin/test-email", func(ctx *gin.Context) {
			var body types.TestEmailRequestBody
			if ctx.Request.ContentLength > 0 {
				if err := ctx.ShouldBindJSON(&body); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			if err := d.SendTestEmail(body.Email); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "test email sent"}})
		}).
		POST("/admin/send-event-reminders", func(ctx *gin.Context) {
			results, err := d.SendEventReminders()
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": results})
		})
	return g
}
