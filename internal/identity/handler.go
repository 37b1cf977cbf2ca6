package identity

import (
	"crypto/subtle"

	"fittrack_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HookSecretHeader carries the shared secret on identity hook calls.
const HookSecretHeader = "X-Identity-Hook-Secret"

// Handler receives identity-creation events from the identity provider.
type Handler struct {
	service Service
	secret  string
	logger  *zap.Logger
}

// NewHandler creates a new identity hook handler. An empty secret disables the hook.
func NewHandler(service Service, secret string, logger *zap.Logger) *Handler {
	return &Handler{service: service, secret: secret, logger: logger.Named("identity_handler")}
}

// RegisterRoutes sets up the identity hook route.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/hooks/identities", h.requireSecret, h.create)
}

func (h *Handler) requireSecret(c *gin.Context) {
	given := c.GetHeader(HookSecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		h.logger.Warn("Identity hook called without a valid secret", zap.String("ip", c.ClientIP()))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid identity hook secret."))
		return
	}
	c.Next()
}

func (h *Handler) create(c *gin.Context) {
	var ev Event
	if !common.BindJSON(c, &ev) {
		return
	}
	ident, assignments, err := h.service.Create(c.Request.Context(), ev)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Identity provisioned successfully.", ToProvisionedResponse(ident, assignments))
}
