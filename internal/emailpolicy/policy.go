// Package emailpolicy holds the versioned email gate applied when an account
// is provisioned.
package emailpolicy

import (
	"fmt"
	"regexp"
	"strings"
)

// Version names one revision of the email policy.
type Version string

const (
	// V1 restricts signups to one organization domain plus the bootstrap admin.
	V1 Version = "v1"
	// V2 keeps the V1 rule with its pattern bound once at construction.
	V2 Version = "v2"
	// V3 accepts any syntactically valid address.
	V3 Version = "v3"
)

// Latest is the version used when none is configured.
const Latest = V3

// DefaultOrganizationDomain is the domain accepted by V1 and V2.
const DefaultOrganizationDomain = "dominio.com"

// GeneralPattern is the address syntax accepted by V3.
const GeneralPattern = `^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`

// Validator decides whether an email address may be provisioned.
type Validator interface {
	Version() Version
	Validate(email string) bool
}

// New returns the validator for version. bootstrapAdmin is always accepted
// by V1 and V2; orgDomain is the single domain they accept.
func New(version Version, bootstrapAdmin, orgDomain string) (Validator, error) {
	if orgDomain == "" {
		orgDomain = DefaultOrganizationDomain
	}
	orgPattern := `^[^@]+@` + regexp.QuoteMeta(strings.ToLower(orgDomain)) + `$`

	switch Version(strings.ToLower(string(version))) {
	case V1:
		return orgValidatorV1{bootstrapAdmin: bootstrapAdmin, pattern: orgPattern}, nil
	case V2:
		re, err := regexp.Compile(orgPattern)
		if err != nil {
			return nil, fmt.Errorf("compiling organization pattern: %w", err)
		}
		return &orgValidatorV2{bootstrapAdmin: bootstrapAdmin, re: re}, nil
	case V3, "":
		return &generalValidator{re: generalRE}, nil
	}
	return nil, fmt.Errorf("unknown email policy version %q", version)
}

// MustNew is New for static configuration known to be valid.
func MustNew(version Version, bootstrapAdmin, orgDomain string) Validator {
	v, err := New(version, bootstrapAdmin, orgDomain)
	if err != nil {
		panic(err)
	}
	return v
}

var generalRE = regexp.MustCompile(GeneralPattern)

// orgValidatorV1 matches its pattern on every call.
type orgValidatorV1 struct {
	bootstrapAdmin string
	pattern        string
}

func (orgValidatorV1) Version() Version { return V1 }

func (v orgValidatorV1) Validate(email string) bool {
	if v.bootstrapAdmin != "" && strings.EqualFold(email, v.bootstrapAdmin) {
		return true
	}
	ok, err := regexp.MatchString(v.pattern, email)
	return err == nil && ok
}

type orgValidatorV2 struct {
	bootstrapAdmin string
	re             *regexp.Regexp
}

func (*orgValidatorV2) Version() Version { return V2 }

func (v *orgValidatorV2) Validate(email string) bool {
	if v.bootstrapAdmin != "" && strings.EqualFold(email, v.bootstrapAdmin) {
		return true
	}
	return v.re.MatchString(email)
}

type generalValidator struct {
	re *regexp.Regexp
}

func (*generalValidator) Version() Version { return V3 }

func (v *generalValidator) Validate(email string) bool {
	return v.re.MatchString(email)
}
