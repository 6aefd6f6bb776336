package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type errorBody struct {
	Error struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"error"`
}

var _ = Describe("Middleware", func() {
	var lg *slog.Logger
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	BeforeEach(func() {
		lg = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	serveAs := func(h http.Handler, id policy.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ideas/update-status", nil)
		req = req.WithContext(policy.ContextWithIdentity(req.Context(), id))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	Describe("RequireReviewer", func() {
		It("admits admins and superadmins", func() {
			guard := middleware.RequireReviewer(lg)(ok)
			Expect(serveAs(guard, policy.Identity{UserID: 1, Role: policy.RoleAdmin}).Code).To(Equal(http.StatusOK))
			Expect(serveAs(guard, policy.Identity{UserID: 2, Role: policy.RoleSuperAdmin}).Code).To(Equal(http.StatusOK))
		})

		It("forbids other roles", func() {
			guard := middleware.RequireReviewer(lg)(ok)
			for _, role := range []policy.Role{policy.RoleUser, policy.RoleCEO, policy.RoleHR} {
				rec := serveAs(guard, policy.Identity{UserID: 3, Role: role})
				Expect(rec.Code).To(Equal(http.StatusForbidden), string(role))

				var body errorBody
				Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
				Expect(body.Error.Code).To(Equal("INSUFFICIENT_ROLE"))
			}
		})

		It("answers 401 for anonymous callers", func() {
			rec := serveAs(middleware.RequireReviewer(lg)(ok), policy.Identity{})
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("RecoveryMiddleware", func() {
		It("turns a panic into an internal error body", func() {
			boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			})
			rec := httptest.NewRecorder()
			middleware.RecoveryMiddleware(lg)(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			var body errorBody
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Error.Type).To(Equal("INTERNAL_ERROR"))
			Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
		})
	})

	Describe("RequestID", func() {
		It("echoes an incoming trace id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Trace-ID", "trace-123")
			rec := httptest.NewRecorder()
			middleware.RequestID(ok).ServeHTTP(rec, req)

			Expect(rec.Header().Get("X-Trace-ID")).To(Equal("trace-123"))
		})

		It("exposes the trace id on the request context", func() {
			var seen string
			capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = internal.TraceIDFromContext(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Trace-ID", "trace-456")
			middleware.RequestID(capture).ServeHTTP(httptest.NewRecorder(), req)

			Expect(seen).To(Equal("trace-456"))
		})

		It("generates one when absent", func() {
			rec := httptest.NewRecorder()
			middleware.RequestID(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(rec.Header().Get("X-Trace-ID")).To(HaveLen(36))
		})
	})

	Describe("LoggingMiddleware", func() {
		It("keeps secrets out of the log", func() {
			var buf bytes.Buffer
			captured := slog.New(slog.NewTextHandler(&buf, nil))
			echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"token":"abc.def.ghi"}`))
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup",
				strings.NewReader(`{"email":"x@adventz.com","password":"Str0ngPass","otp":"123456"}`))
			req.Header.Set("Authorization", "Bearer secret-ticket")
			rec := httptest.NewRecorder()
			middleware.LoggingMiddleware(captured)(echo).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			out := buf.String()
			Expect(out).To(ContainSubstring("x@adventz.com"))
			Expect(out).NotTo(ContainSubstring("Str0ngPass"))
			Expect(out).NotTo(ContainSubstring("123456"))
			Expect(out).NotTo(ContainSubstring("secret-ticket"))
			Expect(out).NotTo(ContainSubstring("abc.def.ghi"))
		})

		It("logs error envelopes but not success bodies", func() {
			var buf bytes.Buffer
			captured := slog.New(slog.NewTextHandler(&buf, nil))
			fail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":{"type":"NOT_FOUND","code":"IDEA_NOT_FOUND"}}`))
			})
			found := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"title":"Paperless onboarding"}`))
			})

			middleware.LoggingMiddleware(captured)(fail).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ideas/9", nil))
			middleware.LoggingMiddleware(captured)(found).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ideas/1", nil))

			out := buf.String()
			Expect(out).To(ContainSubstring("IDEA_NOT_FOUND"))
			Expect(out).To(ContainSubstring("status_code=404"))
			Expect(out).To(ContainSubstring("status_code=200"))
			Expect(out).NotTo(ContainSubstring("Paperless onboarding"))
		})

		It("keeps health probes below info level", func() {
			var buf bytes.Buffer
			captured := slog.New(slog.NewTextHandler(&buf, nil))
			middleware.LoggingMiddleware(captured)(ok).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			Expect(buf.String()).To(BeEmpty())
		})

		It("hides bodies that are not JSON", func() {
			var buf bytes.Buffer
			captured := slog.New(slog.NewTextHandler(&buf, nil))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("password=hunter2"))
			middleware.LoggingMiddleware(captured)(ok).ServeHTTP(httptest.NewRecorder(), req)

			Expect(buf.String()).NotTo(ContainSubstring("hunter2"))
			Expect(buf.String()).To(ContainSubstring("NON-JSON BODY"))
		})

		It("hands the handler an unread request body", func() {
			var seen string
			read := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				seen = string(b)
			})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ideas", strings.NewReader(`{"title":"Solar"}`))
			middleware.LoggingMiddleware(lg)(read).ServeHTTP(httptest.NewRecorder(), req)

			Expect(seen).To(Equal(`{"title":"Solar"}`))
		})
	})
})
