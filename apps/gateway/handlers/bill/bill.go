package bill

import (
	"errors"
	"net/http"

	"estatehub/internal/bill"
	"estatehub/internal/responses"
	"estatehub/internal/structs"
	"estatehub/pkg/logger"
	"estatehub/pkg/reply"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		GetListBill(c *gin.Context)
		GetByIDBill(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger      logger.Logger
		BillService bill.Service
	}

	handler struct {
		logger      logger.Logger
		billService bill.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:      p.Logger,
		billService: p.BillService,
	}
}

func (h *handler) GetListBill(c *gin.Context) {
	var (
		response structs.Response
		filter   structs.GetListBillRequest
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	filter.AccountID = c.Query("accountId")
	filter.Status = c.Query("status")
	filter.Limit = cast.ToInt64(c.Query("limit"))
	filter.Offset = cast.ToInt64(c.Query("offset"))

	switch filter.Status {
	case "", structs.BillStatusSucceed, structs.BillStatusFailed:
	default:
		h.logger.Warn(ctx, " unknown bill status", zap.String("status", filter.Status))
		response = responses.BadRequest
		return
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		response = responses.BadRequest
		return
	}

	list, err := h.billService.GetList(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, " err on h.billService.GetList", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetByIDBill(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	respond, err := h.billService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.billService.GetByID", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = respond
}
