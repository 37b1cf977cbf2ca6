package firebase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/config"
	"fittrack_backend/internal/identity"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// tokenVerifier is the part of auth.Client used here.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Verifier checks Firebase ID tokens and turns them into identity claims.
type Verifier struct {
	client tokenVerifier
	logger *zap.Logger
}

// NewVerifier initializes the Firebase Admin SDK from the configured service
// account key. Without a key path the verifier rejects every token.
func NewVerifier(cfg *config.Config, logger *zap.Logger) (*Verifier, error) {
	logger = logger.Named("firebase")
	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		logger.Warn("FIREBASE_SERVICE_ACCOUNT_KEY_PATH not set; bearer token authentication is disabled.")
		return &Verifier{logger: logger}, nil
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(context.Background(), conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &Verifier{client: authClient, logger: logger}, nil
}

// Enabled reports whether tokens can be verified.
func (v *Verifier) Enabled() bool {
	return v.client != nil
}

// Verify checks idToken and returns the claims needed to resolve the identity.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*identity.Claims, error) {
	if v.client == nil {
		return nil, common.ErrServiceUnavailable.WithDetails("Token verification is not configured.")
	}
	if idToken == "" {
		return nil, common.ErrUnauthorized.WithDetails("ID token must not be empty.")
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		v.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, common.ErrUnauthorized.WithDetails("Invalid or expired ID token.")
	}

	claims := claimsFromToken(token)
	if claims.Email == "" {
		v.logger.Warn("Firebase ID token carries no email", zap.String("uid", token.UID))
		return nil, common.ErrUnauthorized.WithDetails("ID token carries no email address.")
	}
	v.logger.Debug("Firebase ID token verified", zap.String("uid", token.UID))
	return claims, nil
}

func claimsFromToken(token *auth.Token) *identity.Claims {
	c := &identity.Claims{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		c.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		c.Name = name
	}
	return c
}
