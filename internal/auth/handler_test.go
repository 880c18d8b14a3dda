package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stafftrack/hrm-backend/internal"
	"github.com/stafftrack/hrm-backend/internal/auth"
	userDatamodel "github.com/stafftrack/hrm-backend/internal/core/datamodel/user"
)

// MockServiceAPI implements auth.ServiceAPI with canned results.
type MockServiceAPI struct {
	claims *auth.Claims
	user   *userDatamodel.User
}

func (m *MockServiceAPI) Register(ctx context.Context, dto auth.RegisterDTO) (*auth.RegisterResponse, error) {
	return nil, nil
}

func (m *MockServiceAPI) Login(ctx context.Context, dto auth.LoginDTO) (*auth.LoginResponse, error) {
	return nil, nil
}

func (m *MockServiceAPI) Logout(ctx context.Context, userID int64) error {
	return nil
}

func (m *MockServiceAPI) ValidateAccessToken(tokenString string) (*auth.Claims, error) {
	if m.claims == nil {
		return nil, auth.ErrInvalidToken
	}
	return m.claims, nil
}

func (m *MockServiceAPI) GetUser(userID int64) (*userDatamodel.User, error) {
	return m.user, nil
}

var _ = Describe("Auth Middleware", func() {
	var (
		service *MockServiceAPI
		handler *auth.Handler
		seen    *internal.AuthUser
		next    http.Handler
	)

	do := func(withToken bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if withToken {
			req.Header.Set("Authorization", "Bearer some-token")
		}
		rec := httptest.NewRecorder()
		handler.AuthMiddleware(next).ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		service = &MockServiceAPI{
			claims: &auth.Claims{UserID: 1, Email: "alice@corp.test", Role: internal.RoleOperator},
			user: &userDatamodel.User{
				ID:      1,
				Email:   "alice@corp.test",
				Role:    internal.RoleOperator,
				Enabled: true,
			},
		}
		handler = auth.NewHandler(service)
		seen = nil
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = internal.UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	It("attaches the stored user as the principal", func() {
		rec := do(true)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(seen).NotTo(BeNil())
		Expect(seen.ID).To(Equal(int64(1)))
		Expect(seen.Role).To(Equal(internal.RoleOperator))
	})

	It("uses the stored role over the token claims", func() {
		service.user.Role = internal.RoleManager

		rec := do(true)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(seen.Role).To(Equal(internal.RoleManager))
	})

	It("rejects a token whose user has been disabled", func() {
		service.user.Enabled = false

		rec := do(true)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(seen).To(BeNil())
	})

	It("rejects a token whose user no longer exists", func() {
		service.user = nil

		rec := do(true)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a missing token", func() {
		rec := do(false)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects an invalid token", func() {
		service.claims = nil

		rec := do(true)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
