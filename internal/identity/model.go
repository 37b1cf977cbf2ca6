package identity

import (
	"time"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/profile"
	"fittrack_backend/internal/role"
)

// TableName is the table identities are stored in.
const TableName = "identities"

// Identity is the account record created by the identity provider. It is
// read once at creation and otherwise left alone.
type Identity struct {
	ID        string                 `gorm:"type:varchar(128);primaryKey" json:"id"`
	Email     string                 `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Metadata  map[string]interface{} `gorm:"type:text;serializer:json" json:"metadata,omitempty"`
	CreatedAt time.Time              `gorm:"not null" json:"created_at"`

	Profile *profile.Profile `gorm:"foreignKey:ID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Identity) TableName() string {
	return TableName
}

// Event is the identity-creation event sent by the identity provider.
type Event struct {
	ID       string                 `json:"id" binding:"required,max=128"`
	Email    string                 `json:"email" binding:"required,max=255"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Claims are the verified token claims used to provision on first sign-in.
type Claims struct {
	UID   string
	Email string
	Name  string
}

// ProvisionedResponse is returned once an identity has been provisioned.
type ProvisionedResponse struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Roles     []common.Role `json:"roles"`
	CreatedAt time.Time     `json:"created_at"`
}

// ToProvisionedResponse builds the response from a provisioned identity and its roles.
func ToProvisionedResponse(i *Identity, assignments []role.Assignment) ProvisionedResponse {
	resp := ProvisionedResponse{
		ID:        i.ID,
		Email:     i.Email,
		Roles:     make([]common.Role, 0, len(assignments)),
		CreatedAt: i.CreatedAt,
	}
	if i.Profile != nil {
		resp.Name = i.Profile.Name
	}
	for _, a := range assignments {
		resp.Roles = append(resp.Roles, a.Role)
	}
	return resp
}
