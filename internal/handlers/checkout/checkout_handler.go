package checkout

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"storefront-service/internal/domain/checkout"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/response"
	checkoutUsecase "storefront-service/internal/service/checkout"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	svc    *checkoutUsecase.CheckoutService
	logger *zap.Logger
}

func NewCheckoutHandler(svc *checkoutUsecase.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, logger: logger}
}

// CreateSession handles POST /checkout/session
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req checkout.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid checkout payload", err)
		return
	}

	out, err := h.svc.CreateSession(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		h.logger.Error("failed to create checkout session",
			zap.Int64("product_id", req.ProductID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "failed to create checkout session", nil)
		return
	}

	response.Success(c, http.StatusCreated, "checkout session created", out)
}

// Webhook handles POST /checkout/webhook. The payment provider calls
// this endpoint directly, so it sits outside the authenticated routes.
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		response.ValidationError(c, "failed to read webhook body", err)
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		response.ValidationError(c, "invalid webhook payload", err)
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), &event); err != nil {
		h.logger.Error("failed to process webhook event",
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "failed to process event", nil)
		return
	}

	response.Success(c, http.StatusOK, "event received", nil)
}
