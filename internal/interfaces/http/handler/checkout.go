package handler

import (
	"github.com/gin-gonic/gin"
	appcheckout "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles order submission
type CheckoutHandler struct {
	BaseHandler
	checkoutService *appcheckout.Service
	money           valueobject.MoneyFormatter
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *appcheckout.Service, money valueobject.MoneyFormatter) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		money:           money,
	}
}

// Submit godoc
// @ID           submitCheckout
// @Summary      Place the order
// @Description  Validates the buyer details, formats the order transcript and returns the messaging link. The cart is emptied on success.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body appcheckout.SubmitRequest true "Buyer details"
// @Success      200 {object} APIResponse[appcheckout.ResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /checkout [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req appcheckout.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.checkoutService.Submit(c.Request.Context(), middleware.GetSessionID(c), req.BuyerDetails())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appcheckout.ToResultResponse(result, h.money.Format(valueobject.NewMoneyCOP(result.Subtotal))))
}
