package role

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/config"
	"fittrack_backend/internal/platform/metrics"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Checker answers HasRole from the role store directly. It holds its own
// handle and never goes through the session policy scope, so policies on
// role_assignments itself can depend on it.
type Checker struct {
	db      *gorm.DB
	cache   *gocache.Cache
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewChecker creates a Checker. A positive ttl enables the in-process cache.
func NewChecker(db *gorm.DB, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *Checker {
	c := &Checker{
		db:      db.Session(&gorm.Session{NewDB: true}),
		logger:  logger.Named("role_checker"),
		metrics: m,
	}
	if ttl > 0 {
		c.cache = gocache.New(ttl, 2*ttl)
	}
	return c
}

// NewCheckerFromConfig is NewChecker with the TTL from ROLE_CHECK_CACHE_TTL_SECONDS.
func NewCheckerFromConfig(db *gorm.DB, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Checker {
	return NewChecker(db, cfg.RoleCheckCacheTTL, logger, m)
}

func cacheKey(identityID string, r common.Role) string {
	return identityID + "|" + string(r)
}

// HasRole reports whether identityID holds r. An unknown identity holds no role.
func (c *Checker) HasRole(ctx context.Context, identityID string, r common.Role) (bool, error) {
	if identityID == "" || !r.Valid() {
		return false, nil
	}
	key := cacheKey(identityID, r)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			held := v.(bool)
			c.metrics.RoleChecksTotal.WithLabelValues(string(r), strconv.FormatBool(held), "cache").Inc()
			return held, nil
		}
	}

	var n int64
	err := c.db.WithContext(ctx).
		Model(&Assignment{}).
		Where("user_id = ? AND role = ?", identityID, r).
		Count(&n).Error
	if err != nil {
		c.logger.Error("Role check failed", zap.String("identity_id", identityID), zap.String("role", string(r)), zap.Error(err))
		return false, fmt.Errorf("checking role %s: %w", r, err)
	}
	held := n > 0
	if c.cache != nil {
		c.cache.SetDefault(key, held)
	}
	c.metrics.RoleChecksTotal.WithLabelValues(string(r), strconv.FormatBool(held), "db").Inc()
	return held, nil
}

// Invalidate drops cached answers for identityID.
func (c *Checker) Invalidate(identityID string) {
	if c.cache == nil {
		return
	}
	for _, r := range common.Roles {
		c.cache.Delete(cacheKey(identityID, r))
	}
}
