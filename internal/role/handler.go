package role

import (
	"fittrack_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for role handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new role handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("role_handler")}
}

// RegisterRoutes sets up the routes for role management.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	roles := router.Group("/roles", authMW)
	{
		roles.GET("", h.list)
		roles.POST("", h.grant)
		roles.DELETE("/:userId/:role", h.revoke)
	}
}

func (h *Handler) list(c *gin.Context) {
	page := common.GetPaginationParams(c)
	rows, total, err := h.service.List(c.Request.Context(), page, c.Query("user_id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Role assignments retrieved successfully.", rows, common.NewPagination(total, page.Page, page.PageSize))
}

func (h *Handler) grant(c *gin.Context) {
	var req GrantRequest
	if !common.BindJSON(c, &req) {
		return
	}
	a, err := h.service.Grant(c.Request.Context(), req.UserID, common.Role(req.Role))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Role granted successfully.", a)
}

func (h *Handler) revoke(c *gin.Context) {
	r, ok := common.ParseRole(c.Param("role"))
	if !ok {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Unknown role."))
		return
	}
	if err := h.service.Revoke(c.Request.Context(), c.Param("userId"), r); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
