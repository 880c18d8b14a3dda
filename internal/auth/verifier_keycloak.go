package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stafftrack/hrm-backend/internal"
	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

// KeycloakVerifier delegates the credential check to the realm's OIDC
// password-grant token endpoint, then finds or creates the matching local
// user and links it through ExternalIdentity.
type KeycloakVerifier struct {
	cfg    internal.KeycloakConfig
	users  UserRepository
	client *http.Client
	logger *slog.Logger
}

func NewKeycloakVerifier(cfg internal.KeycloakConfig, users UserRepository, logger *slog.Logger) *KeycloakVerifier {
	return &KeycloakVerifier{
		cfg:    cfg,
		users:  users,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type keycloakTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type keycloakAccessClaims struct {
	Subject     string `json:"sub"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

func (v *KeycloakVerifier) Verify(ctx context.Context, email, password string) (*userDatamodel.User, error) {
	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {v.cfg.ClientID},
		"client_secret": {v.cfg.ClientSecret},
		"username":      {email},
		"password":      {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.TokenEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("keycloak token request failed", "error", err)
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidCredentials
	}

	var tok keycloakTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	claims, err := decodeAccessClaims(tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}

	role := internal.RoleOperator
	for _, r := range claims.RealmAccess.Roles {
		if r == internal.RoleManager {
			role = internal.RoleManager
			break
		}
	}

	u, err := v.users.GetByEmail(email)
	if err != nil || u == nil {
		now := time.Now()
		u = &userDatamodel.User{
			Email:        email,
			PasswordHash: "", // handled by the identity provider
			Role:         role,
			Enabled:      true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := v.users.Create(u); err != nil {
			return nil, err
		}
	}

	identity := &userDatamodel.ExternalIdentity{
		Provider: "keycloak",
		Subject:  claims.Subject,
		Email:    email,
		UserID:   u.ID,
	}
	if err := v.users.UpsertExternalIdentity(identity); err != nil {
		v.logger.Error("failed to upsert external identity", "error", err, "user_id", u.ID)
		return nil, err
	}

	return u, nil
}

// decodeAccessClaims extracts claims from the provider token without
// signature verification; the provider already authenticated the call and
// the token is not reused.
func decodeAccessClaims(accessToken string) (*keycloakAccessClaims, error) {
	parts := strings.Split(accessToken, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed token")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}

	var claims keycloakAccessClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}
