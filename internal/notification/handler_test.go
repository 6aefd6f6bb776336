package notification_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	notificationDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/notification"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/notification"
	"github.com/frahmantamala/idea-portal/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Notification Handler", func() {
	var (
		repo    *MockRepository
		handler *notification.Handler
		owner   policy.Identity
	)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/mark-read", strings.NewReader(body))
		req = req.WithContext(policy.ContextWithIdentity(context.Background(), owner))
		w := httptest.NewRecorder()
		handler.MarkRead(w, req)
		return w
	}

	BeforeEach(func() {
		repo = &MockRepository{
			rows: []*notificationDatamodel.Notification{
				{ID: 1, UserID: 1, Message: "a"},
				{ID: 2, UserID: 1, Message: "b"},
				{ID: 3, UserID: 2, Message: "c"},
			},
		}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = notification.NewHandler(&transport.BaseHandler{Logger: lg}, notification.NewService(repo, lg))
		owner = policy.Identity{UserID: 1, Role: policy.RoleUser}
	})

	Describe("MarkRead", func() {
		It("should mark the ids listed under ids as read", func() {
			w := post(`{"ids":[1,2]}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			var result notification.MarkReadResult
			Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
			Expect(result.AffectedCount).To(Equal(int64(2)))
			Expect(repo.rows[0].IsRead).To(BeTrue())
			Expect(repo.rows[1].IsRead).To(BeTrue())
		})

		It("should leave notifications of other users untouched", func() {
			w := post(`{"ids":[3]}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"affected_count":0`))
			Expect(repo.rows[2].IsRead).To(BeFalse())
		})

		It("should reject a body without ids", func() {
			w := post(`{}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("EMPTY_ID_LIST"))
		})

		It("should reject malformed JSON", func() {
			w := post(`{"ids":`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("VALIDATION_ERROR"))
		})
	})
})
