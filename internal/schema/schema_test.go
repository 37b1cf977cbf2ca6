package schema_test

import (
	"testing"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/testsupport"

	"github.com/stretchr/testify/assert"
)

func TestMigrateCreatesEveryPolicyTable(t *testing.T) {
	env := testsupport.NewEnv(t)

	m := env.DB.Migrator()
	assert.True(t, m.HasTable("identities"))
	for _, rule := range access.Policies() {
		assert.True(t, m.HasTable(rule.Table), rule.Table)
	}
	assert.True(t, m.HasIndex("role_assignments", "idx_role_assignments_user_role"))
	assert.True(t, m.HasIndex("checkins", "idx_checkins_user_type_ref_date"))
}
