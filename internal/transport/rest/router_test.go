package rest_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/idea-portal/api"
	"github.com/frahmantamala/idea-portal/internal/auth"
	"github.com/frahmantamala/idea-portal/internal/idea"
	"github.com/frahmantamala/idea-portal/internal/notification"
	"github.com/frahmantamala/idea-portal/internal/testutil"
	"github.com/frahmantamala/idea-portal/internal/transport"
	"github.com/frahmantamala/idea-portal/internal/transport/rest"
	"github.com/frahmantamala/idea-portal/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var _ = Describe("Router", func() {
	var (
		db     *gorm.DB
		mr     *miniredis.Miniredis
		rdb    *redis.Client
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		sqlxDB, err := testutil.SQLX(db)
		Expect(err).NotTo(HaveOccurred())

		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})

		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		base := transport.NewBaseHandler(lg)
		tickets := auth.NewTicketManager("router-test-secret-at-least-32-bytes", 0)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Handlers{
			Health:       rest.NewHealthHandler(sqlxDB, rdb),
			Auth:         auth.NewHandler(base, auth.NewService(nil, tickets, nil, nil, lg, auth.Options{})),
			User:         user.NewHandler(base, nil),
			Idea:         idea.NewHandler(base, nil),
			Notification: notification.NewHandler(base, nil),
		}, []string{"*"}, lg)
	})

	AfterEach(func() {
		rdb.Close()
		mr.Close()
		testutil.Close(db)
	})

	It("documents every API route", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		walked := 0
		err = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if !strings.HasPrefix(route, "/api/v1/") {
				return nil
			}
			path := strings.TrimSuffix(strings.TrimPrefix(route, "/api/v1"), "/")
			item := doc.Paths.Value(path)
			Expect(item).NotTo(BeNil(), "undocumented path %s", path)
			Expect(item.GetOperation(method)).NotTo(BeNil(), "undocumented operation %s %s", method, path)
			walked++
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(walked).To(Equal(21))
	})

	It("serves the OpenAPI document", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	It("requires a ticket on protected routes", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ideas", nil))

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("answers unknown routes with a JSON 404", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
	})

	Describe("health", func() {
		It("reports healthy stores", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp rest.HealthResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal(rest.HealthHealthy))
			Expect(resp.Components).To(HaveKey("postgres"))
			Expect(resp.Components).To(HaveKey("redis"))
		})

		It("reports 503 when redis is down", func() {
			mr.Close()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
			var resp rest.HealthResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Components["redis"].Status).To(Equal(rest.HealthUnhealthy))
		})

		It("answers ping", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("OK"))
		})
	})
})
