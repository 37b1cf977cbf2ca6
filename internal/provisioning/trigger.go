// Package provisioning creates the profile and initial role of every new
// identity, inside the transaction that inserts the identity.
package provisioning

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/config"
	"fittrack_backend/internal/emailpolicy"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/platform/database"
	"fittrack_backend/internal/platform/metrics"
	"fittrack_backend/internal/profile"
	"fittrack_backend/internal/role"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const callbackName = "fittrack:provision_account"

// Trigger is a gorm plugin. Its after-create callback on identities runs
// Validate, Derive name, Create profile and Assign initial role; any failure
// is added to the statement so the identity insert rolls back with it.
type Trigger struct {
	validator      emailpolicy.Validator
	bootstrapAdmin string
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// NewTrigger creates a provisioning trigger. bootstrapAdmin is the address
// granted admin at first signup.
func NewTrigger(validator emailpolicy.Validator, bootstrapAdmin string, logger *zap.Logger, m *metrics.Metrics) *Trigger {
	return &Trigger{
		validator:      validator,
		bootstrapAdmin: common.NormalizeEmail(bootstrapAdmin),
		logger:         logger.Named("provisioning"),
		metrics:        m,
	}
}

// NewTriggerFromConfig builds the validator selected by EMAIL_POLICY_VERSION.
func NewTriggerFromConfig(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Trigger, error) {
	v, err := emailpolicy.New(emailpolicy.Version(cfg.EmailPolicyVersion), cfg.BootstrapAdminEmail, cfg.EmailAllowedDomain)
	if err != nil {
		return nil, err
	}
	logger.Info("Email policy selected", zap.String("version", string(v.Version())))
	return NewTrigger(v, cfg.BootstrapAdminEmail, logger, m), nil
}

// Name implements gorm.Plugin.
func (t *Trigger) Name() string {
	return "fittrack:provisioning"
}

// Initialize implements gorm.Plugin.
func (t *Trigger) Initialize(db *gorm.DB) error {
	return db.Callback().Create().
		After("gorm:create").
		Before("gorm:commit_or_rollback_transaction").
		Register(callbackName, t.afterCreate)
}

func (t *Trigger) afterCreate(db *gorm.DB) {
	if db.Error != nil || db.Statement.Schema == nil || db.Statement.Schema.Table != identity.TableName {
		return
	}
	ctx := db.Statement.Context
	// Same connection, which is the open transaction.
	tx := database.Detach(db)

	rv := reflect.Indirect(db.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := t.provisionValue(ctx, tx, rv.Index(i)); err != nil {
				_ = db.AddError(err)
				return
			}
		}
	case reflect.Struct:
		if err := t.provisionValue(ctx, tx, rv); err != nil {
			_ = db.AddError(err)
		}
	}
}

func (t *Trigger) provisionValue(ctx context.Context, tx *gorm.DB, v reflect.Value) error {
	v = reflect.Indirect(v)
	var ident *identity.Identity
	if v.CanAddr() {
		ident, _ = v.Addr().Interface().(*identity.Identity)
	}
	if ident == nil {
		i, ok := v.Interface().(identity.Identity)
		if !ok {
			return fmt.Errorf("provisioning: unexpected identity value %s", v.Type())
		}
		ident = &i
	}
	return t.Provision(ctx, tx, ident)
}

// Provision runs the provisioning steps for ident on tx's connection.
func (t *Trigger) Provision(ctx context.Context, tx *gorm.DB, ident *identity.Identity) error {
	tx = database.Detach(tx)
	email := common.NormalizeEmail(ident.Email)

	if !t.validator.Validate(email) {
		t.metrics.ProvisioningTotal.WithLabelValues("rejected", "none").Inc()
		t.logger.Warn("Identity rejected by email policy",
			zap.String("identity_id", ident.ID),
			zap.String("policy", string(t.validator.Version())),
		)
		return common.ErrValidation.WithDetails(fmt.Sprintf("Email %q is not accepted by email policy %s.", email, t.validator.Version()))
	}

	p := &profile.Profile{
		ID:    ident.ID,
		Name:  DeriveName(email, ident.Metadata),
		Email: email,
	}
	if err := profile.NewGORMRepository(tx).Create(ctx, p); err != nil {
		t.metrics.ProvisioningTotal.WithLabelValues("failed", "none").Inc()
		return err
	}

	initial := t.InitialRole(email)
	if _, err := role.NewGORMRepository(tx).Assign(ctx, ident.ID, initial, nil); err != nil {
		t.metrics.ProvisioningTotal.WithLabelValues("failed", string(initial)).Inc()
		return err
	}

	t.metrics.ProvisioningTotal.WithLabelValues("created", string(initial)).Inc()
	t.logger.Info("Account provisioned",
		zap.String("identity_id", ident.ID),
		zap.String("role", string(initial)),
	)
	return nil
}

// InitialRole is admin for the bootstrap address and user for everyone else.
func (t *Trigger) InitialRole(email string) common.Role {
	if t.bootstrapAdmin != "" && common.NormalizeEmail(email) == t.bootstrapAdmin {
		return common.RoleAdmin
	}
	return common.RoleUser
}

// DeriveName uses metadata["name"] when it is a non-empty string, and the
// local part of email otherwise.
func DeriveName(email string, metadata map[string]interface{}) string {
	if name, ok := metadata["name"].(string); ok {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
