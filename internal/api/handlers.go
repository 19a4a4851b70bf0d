package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/gin-gonic/gin"
)

type StackService interface {
	Generate(ctx context.Context, req models.GenerateStackRequest) (*models.GenerateStackResponse, error)
	GetStack(ctx context.Context, profileID string) (*models.StackResult, error)
}

type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, amount *int64) (string, error)
}

type StackHandler struct {
	stacks   StackService
	payments PaymentService
	log      *logger.Logger
}

func NewStackHandler(stacks StackService, payments PaymentService, log *logger.Logger) *StackHandler {
	return &StackHandler{stacks: stacks, payments: payments, log: log.With("handler", "StackHandler")}
}

// GenerateStack handles POST /api/generate-stack.
func (h *StackHandler) GenerateStack(c *gin.Context) {
	var req models.GenerateStackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Invalid("invalid request body: %v", err))
		return
	}

	resp, err := h.stacks.Generate(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, resp)
}

// GetStack handles GET /api/stack/:profileId.
func (h *StackHandler) GetStack(c *gin.Context) {
	result, err := h.stacks.GetStack(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

// CreatePaymentIntent handles POST /api/create-payment-intent. An empty body
// selects the default amount.
func (h *StackHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, apierr.Invalid("invalid request body: %v", err))
		return
	}

	secret, err := h.payments.CreatePaymentIntent(c.Request.Context(), req.Amount)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, models.PaymentIntentResponse{ClientSecret: secret})
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
