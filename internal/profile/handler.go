package profile

import (
	"fittrack_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for profile handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("profile_handler")}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	profiles := router.Group("/profiles", authMW)
	{
		profiles.GET("", h.list)
		profiles.GET("/me", h.getMe)
		profiles.PATCH("/me", h.updateMe)
		profiles.GET("/:id", h.get)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	p, err := h.service.Me(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", p)
}

func (h *Handler) updateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if !common.BindJSON(c, &req) {
		return
	}
	p, err := h.service.UpdateMe(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", p)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", p)
}

func (h *Handler) list(c *gin.Context) {
	page := common.GetPaginationParams(c)
	rows, total, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Profiles retrieved successfully.", rows, common.NewPagination(total, page.Page, page.PageSize))
}
