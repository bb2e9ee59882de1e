package vnpay

import (
	"errors"
	"net/http"

	"estatehub/apps/gateway/handlers/middleware"
	"estatehub/internal/payment/vnpay"
	"estatehub/internal/responses"
	"estatehub/internal/structs"
	"estatehub/pkg/logger"
	"estatehub/pkg/reply"
	vnp "estatehub/pkg/vnpay"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(New)

type (
	Handler interface {
		CreatePaymentURL(c *gin.Context)
		CreatePaymentQR(c *gin.Context)
		CreateBill(c *gin.Context)
		Return(c *gin.Context)
		IPN(c *gin.Context)
	}

	Params struct {
		fx.In
		Logger       logger.Logger
		VnpayService vnpay.Service
	}

	handler struct {
		logger       logger.Logger
		vnpayService vnpay.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:       p.Logger,
		vnpayService: p.VnpayService,
	}
}

func (h *handler) CreatePaymentURL(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreatePaymentURLRequest
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	resp, err := h.vnpayService.CreatePaymentURL(ctx, request, middleware.ClientIP(c))
	if err != nil {
		if errors.Is(err, structs.ErrInvalidAmount) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.vnpayService.CreatePaymentURL", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.URL = resp.URL
	response.Payload = resp
}

func (h *handler) CreatePaymentQR(c *gin.Context) {
	var (
		request structs.CreatePaymentURLRequest
		ctx     = c.Request.Context()
	)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		reply.Json(c.Writer, http.StatusOK, responses.BadRequest)
		return
	}

	png, err := h.vnpayService.CreatePaymentQR(ctx, request, middleware.ClientIP(c))
	if err != nil {
		if errors.Is(err, structs.ErrInvalidAmount) {
			reply.Json(c.Writer, http.StatusOK, responses.BadRequest)
			return
		}
		h.logger.Error(ctx, " err on h.vnpayService.CreatePaymentQR", zap.Error(err))
		reply.Json(c.Writer, http.StatusOK, responses.InternalErr)
		return
	}

	reply.PNG(c.Writer, png)
}

func (h *handler) CreateBill(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateBillRequest
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	bill, created, err := h.vnpayService.CreateBill(ctx, request)
	if err != nil {
		switch {
		case errors.Is(err, structs.ErrInvalidSignature):
			response = responses.InvalidSignature
		case errors.Is(err, structs.ErrNoRowsAffected):
			response = responses.BillFailed
		default:
			h.logger.Error(ctx, " err on h.vnpayService.CreateBill", zap.Error(err))
			response = responses.InternalErr
		}
		return
	}

	if !created {
		response = responses.BillAlreadyRecorded
		response.Payload = bill
		return
	}

	response = responses.BillCreated
	response.Payload = bill
}

func (h *handler) Return(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	result, err := h.vnpayService.VerifyReturn(ctx, vnp.FromValues(c.Request.URL.Query()))
	if err != nil {
		if errors.Is(err, structs.ErrInvalidSignature) {
			response = responses.InvalidSignature
			return
		}
		h.logger.Error(ctx, " err on h.vnpayService.VerifyReturn", zap.Error(err))
		response = responses.InternalErr
		return
	}

	if !result.Succeeded {
		response = responses.TransactionFailed
		response.Payload = result
		return
	}

	response = responses.TransactionSucceeded
	response.Payload = result
}

func (h *handler) IPN(c *gin.Context) {
	resp := h.vnpayService.HandleIPN(c.Request.Context(), vnp.FromValues(c.Request.URL.Query()))
	reply.Json(c.Writer, http.StatusOK, resp)
}
