package controllers

import (
	"net/http"
	"tech-store/config"
	"tech-store/models"
	"tech-store/services"
	"tech-store/utils"

	"github.com/gin-gonic/gin"
)

const vnpayResponseSuccess = "00"

type PaymentController struct {
	paymentService *services.PaymentService
}

func NewPaymentController(paymentService *services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// @Summary VNPAY payment update
// @Description Signed gateway callback reporting a payment result
// @Tags Payments
// @Produce json
// @Param vnp_TxnRef query string true "Order number"
// @Param vnp_ResponseCode query string true "Gateway response code"
// @Param vnp_SecureHash query string true "HMAC-SHA512 signature"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /payment/vnpay-update [post]
func (ctrl *PaymentController) VNPayUpdate(c *gin.Context) {
	params := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	if !utils.VerifyVNPaySignature(params, config.AppConfig.VNPayHashSecret) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid signature",
		})
		return
	}

	orderNumber := params["vnp_TxnRef"]
	if orderNumber == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Missing order reference",
		})
		return
	}

	succeeded := params["vnp_ResponseCode"] == vnpayResponseSuccess

	err := ctrl.paymentService.ApplyPaymentResult(
		c.Request.Context(),
		orderNumber,
		succeeded,
		params["vnp_TransactionNo"],
		params["vnp_BankCode"],
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Payment update processed",
	})
}
