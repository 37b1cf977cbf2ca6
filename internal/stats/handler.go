package stats

import (
	"time"

	"fittrack_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service     Service
	snapshotter *Snapshotter
	logger      *zap.Logger
}

func NewHandler(service Service, snapshotter *Snapshotter, logger *zap.Logger) *Handler {
	return &Handler{service: service, snapshotter: snapshotter, logger: logger.Named("stats_handler")}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	stats := router.Group("/stats", authMW)
	{
		stats.GET("", h.listSnapshots)
		stats.GET("/today", h.today)
		stats.POST("/snapshots", adminMW, h.runSnapshots)
	}
}

func (h *Handler) listSnapshots(c *gin.Context) {
	page := common.GetPaginationParams(c)
	rows, total, err := h.service.ListSnapshots(c.Request.Context(), page)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Stats snapshots retrieved successfully.", rows, common.NewPagination(total, page.Page, page.PageSize))
}

func (h *Handler) today(c *gin.Context) {
	snap, err := h.service.Today(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Stats computed successfully.", snap)
}

// runSnapshots runs the snapshotter immediately for today.
func (h *Handler) runSnapshots(c *gin.Context) {
	res, err := h.snapshotter.Run(c.Request.Context(), time.Now())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Stats snapshot run completed.", res)
}
