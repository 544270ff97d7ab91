package main

import (
	"net/http"

	"tickethub/src/common"
	"tickethub/src/lib"
	"tickethub/src/types"

	"github.com/gin-gonic/gin"
)

func paymentHandlers(g *gin.RouterGroup, gw lib.PaymentGateway, d *common.Dispatcher) *gin.RouterGroup {
	g.
		POST("/payments/create", func(ctx *gin.Context) {
			var body types.CreatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			order, err := common.CreatePaymentOrder(ctx.Request.Context(), gw, body.BookingID, userID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": order})
		}).
		POST("/payments/capture", func(ctx *gin.Context) {
			var body types.CapturePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			booking, err := common.CapturePaymentOrder(ctx.Request.Context(), gw, d, body.OrderID, body.BookingID, userID)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}
