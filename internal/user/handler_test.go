package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/transport"
	"github.com/frahmantamala/idea-portal/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockService struct {
	users     []*user.User
	err       error
	lastRole  string
	lastID    int64
	deletedID int64
}

func (m *mockService) GetMe(ctx context.Context, caller policy.Identity) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &user.User{ID: caller.UserID, Email: caller.Email, Role: string(caller.Role)}, nil
}

func (m *mockService) ListUsers(ctx context.Context, caller policy.Identity) ([]*user.User, error) {
	return m.users, m.err
}

func (m *mockService) ChangeRole(ctx context.Context, caller policy.Identity, id int64, dto user.ChangeRoleDTO) error {
	m.lastID, m.lastRole = id, dto.Role
	return m.err
}

func (m *mockService) DeleteUser(ctx context.Context, caller policy.Identity, id int64) error {
	m.deletedID = id
	return m.err
}

func (m *mockService) ResetPassword(ctx context.Context, caller policy.Identity, id int64, dto user.ResetPasswordDTO) error {
	m.lastID = id
	return m.err
}

var _ = Describe("User Handler", func() {
	var (
		svc     *mockService
		handler *user.Handler
		caller  policy.Identity
	)

	request := func(method, target, body string, params map[string]string) *http.Request {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
		return req.WithContext(policy.ContextWithIdentity(ctx, caller))
	}

	BeforeEach(func() {
		svc = &mockService{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = user.NewHandler(&transport.BaseHandler{Logger: lg}, svc)
		caller = policy.Identity{UserID: 1, Email: "admin@adventz.com", Role: policy.RoleAdmin}
	})

	It("should return the current user without the password hash", func() {
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, request(http.MethodGet, "/api/v1/users/me", "", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"email":"admin@adventz.com"`))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})

	It("should pass the path id and role to the service", func() {
		w := httptest.NewRecorder()
		handler.ChangeRole(w, request(http.MethodPut, "/api/v1/users/7/role", `{"role":"ceo"}`, map[string]string{"id": "7"}))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(svc.lastID).To(Equal(int64(7)))
		Expect(svc.lastRole).To(Equal("ceo"))

		var body user.MessageResponse
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Message).To(Equal("User role updated successfully"))
	})

	It("should refuse a role change on the caller's own account even with a malformed body", func() {
		w := httptest.NewRecorder()
		handler.ChangeRole(w, request(http.MethodPut, "/api/v1/users/1/role", `{"role":`, map[string]string{"id": "1"}))

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring("INVALID_OPERATION"))
		Expect(svc.lastID).To(BeZero())
	})

	It("should report a malformed body for another account as a validation error", func() {
		w := httptest.NewRecorder()
		handler.ChangeRole(w, request(http.MethodPut, "/api/v1/users/7/role", `{"role":`, map[string]string{"id": "7"}))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("VALIDATION_ERROR"))
	})

	It("should map InvalidOperation to 403", func() {
		svc.err = internal.ErrInvalidOperation
		w := httptest.NewRecorder()
		handler.DeleteUser(w, request(http.MethodDelete, "/api/v1/users/1", "", map[string]string{"id": "1"}))

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring("INVALID_OPERATION"))
	})

	It("should map NotFound to 404", func() {
		svc.err = internal.ErrUserNotFound
		w := httptest.NewRecorder()
		handler.ResetPassword(w, request(http.MethodPut, "/api/v1/users/9/password", `{"password":"abcde"}`, map[string]string{"id": "9"}))

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should hide unexpected errors behind a 500", func() {
		svc.err = errors.New("connection reset")
		w := httptest.NewRecorder()
		handler.ListUsers(w, request(http.MethodGet, "/api/v1/users", "", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("connection reset"))
	})

	It("should reject a bad id", func() {
		w := httptest.NewRecorder()
		handler.DeleteUser(w, request(http.MethodDelete, "/api/v1/users/x", "", map[string]string{"id": "x"}))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(svc.deletedID).To(BeZero())
	})
})
