package checkin

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
	return &Handler{service: service, logger: logger.Named("checkin_handler")}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	checkins := router.Group("/checkins", authMW)
	{
		checkins.GET("", h.list)
		checkins.POST("", h.create)
		checkins.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	page := common.GetPaginationParams(c)
	rows, total, err := h.service.List(c.Request.Context(), page, c.Query("date"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Check-ins retrieved successfully.", rows, common.NewPagination(total, page.Page, page.PageSize))
}

func (h *Handler) create(c *gin.Context) {
	var req CreateCheckinRequest
	if !common.BindJSON(c, &req) {
		return
	}
	ci, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Check-in recorded successfully.", ci)
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
