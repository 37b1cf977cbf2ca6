package run

import (
	"fittrack_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("run_handler")}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	runs := router.Group("/runs", authMW)
	{
		runs.GET("", h.list)
		runs.POST("", h.create)
		runs.GET("/:id", h.get)
		runs.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	page := common.GetPaginationParams(c)
	rows, total, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	out := make([]RunResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToRunResponse(&rows[i]))
	}
	common.RespondPaginated(c, "Runs retrieved successfully.", out, common.NewPagination(total, page.Page, page.PageSize))
}

func (h *Handler) get(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Run retrieved successfully.", ToRunResponse(r))
}

func (h *Handler) create(c *gin.Context) {
	var req CreateRunRequest
	if !common.BindJSON(c, &req) {
		return
	}
	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Run recorded successfully.", ToRunResponse(r))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
