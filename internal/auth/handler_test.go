package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/auth"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockService struct {
	err      error
	identity policy.Identity
	otpFor   string
}

func (m *mockService) SendOTP(ctx context.Context, dto auth.SendOTPDTO) error {
	m.otpFor = dto.Email
	return m.err
}

func (m *mockService) Signup(ctx context.Context, dto auth.SignupDTO) (*auth.UserView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &auth.UserView{ID: 11, Email: dto.Email, Role: "user", FullName: dto.FullName}, nil
}

func (m *mockService) Login(ctx context.Context, dto auth.LoginDTO) (*auth.LoginResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &auth.LoginResponse{Token: "signed", User: auth.UserView{ID: 1, Email: dto.Email, Role: "admin"}}, nil
}

func (m *mockService) Verify(token string) (policy.Identity, error) {
	if token == "" {
		return policy.Identity{}, internal.ErrMissingToken
	}
	if token != "good" {
		return policy.Identity{}, internal.ErrInvalidToken
	}
	return m.identity, nil
}

type errorBody struct {
	Error struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"error"`
}

var _ = Describe("Auth Handler", func() {
	var (
		svc     *mockService
		handler *auth.Handler
	)

	BeforeEach(func() {
		svc = &mockService{identity: policy.Identity{UserID: 4, Email: "a@adventz.com", Role: policy.RoleAdmin}}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = auth.NewHandler(transport.NewBaseHandler(lg), svc)
	})

	It("acknowledges an OTP request", func() {
		rec := httptest.NewRecorder()
		handler.SendOTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/send-otp", strings.NewReader(`{"email":"x@adventz.com"}`)))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("OTP sent to your email"))
		Expect(svc.otpFor).To(Equal("x@adventz.com"))
	})

	It("returns 201 with the new user on signup", func() {
		rec := httptest.NewRecorder()
		body := `{"email":"x@adventz.com","full_name":"Xavier","phone":"0812345678","password":"Str0ngPass","confirm_password":"Str0ngPass","otp":"123456"}`
		handler.Signup(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body)))

		Expect(rec.Code).To(Equal(http.StatusCreated))
		var resp auth.SignupResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.User.FullName).To(Equal("Xavier"))
	})

	It("maps a taken email to 409", func() {
		svc.err = internal.ErrEmailTaken
		rec := httptest.NewRecorder()
		handler.Signup(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(`{}`)))

		Expect(rec.Code).To(Equal(http.StatusConflict))
	})

	It("maps bad credentials to 401", func() {
		svc.err = internal.ErrInvalidCredentials
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a","password":"b"}`)))

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeInvalidCredentials)))
	})

	It("rejects malformed JSON", func() {
		rec := httptest.NewRecorder()
		handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":`)))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	Describe("AuthMiddleware", func() {
		var seen policy.Identity
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = policy.IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})

		BeforeEach(func() {
			seen = policy.Identity{}
		})

		It("puts the verified identity on the context", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
			req.Header.Set("Authorization", "Bearer good")
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(seen).To(Equal(svc.identity))
		})

		It("answers 401 without a ticket", func() {
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			var body errorBody
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Error.Code).To(Equal(string(internal.ErrCodeMissingToken)))
			Expect(seen.IsAnonymous()).To(BeTrue())
		})

		It("answers 401 for a bad ticket", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil)
			req.Header.Set("Authorization", "Bearer forged")
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
