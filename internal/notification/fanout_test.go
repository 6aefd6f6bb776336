package notification_test

import (
	"time"

	"github.com/frahmantamala/idea-portal/internal/core/events"
	"github.com/frahmantamala/idea-portal/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func recipients(ns []*notification.Notification) []int64 {
	out := make([]int64, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.UserID)
	}
	return out
}

var _ = Describe("Derive", func() {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	Context("idea submitted", func() {
		It("notifies every admin with the submitter name", func() {
			ev := events.NewIdeaSubmittedEvent(7, 1, "Solar roofs", "Rina", now)
			ns := notification.Derive(ev, []int64{10, 11})

			Expect(recipients(ns)).To(ConsistOf(int64(10), int64(11)))
			Expect(ns[0].Message).To(Equal("New idea submitted by Rina: 'Solar roofs'"))
			Expect(*ns[0].IdeaID).To(Equal(int64(7)))
			Expect(ns[0].CreatedAt).To(Equal(now))
			Expect(ns[0].IsRead).To(BeFalse())
		})

		It("produces nothing when there are no admins", func() {
			ev := events.NewIdeaSubmittedEvent(7, 1, "Solar roofs", "Rina", now)
			Expect(notification.Derive(ev, nil)).To(BeEmpty())
		})
	})

	Context("status changed", func() {
		It("notifies only the owner", func() {
			ev := events.NewIdeaStatusChangedEvent(7, 1, "Solar roofs", "Submitted", "Shortlisted", false, now)
			ns := notification.Derive(ev, []int64{10, 11})

			Expect(recipients(ns)).To(Equal([]int64{1}))
			Expect(ns[0].Message).To(Equal(`The status of your idea "Solar roofs" has been updated to "Shortlisted".`))
		})

		It("names the CEO when the change came from an executive reaction", func() {
			ev := events.NewIdeaStatusChangedEvent(7, 1, "Solar roofs", "Submitted", "Rejected", true, now)
			ns := notification.Derive(ev, nil)

			Expect(ns).To(HaveLen(1))
			Expect(ns[0].Message).To(Equal(`The status of your idea "Solar roofs" has been updated to "Rejected" by the CEO.`))
		})

		It("produces nothing for a no-op change", func() {
			ev := events.NewIdeaStatusChangedEvent(7, 1, "Solar roofs", "Approved", "Approved", true, now)
			Expect(notification.Derive(ev, nil)).To(BeEmpty())
		})
	})

	Context("comment posted", func() {
		It("notifies the owner and every other admin when an admin comments", func() {
			ev := events.NewCommentPostedEvent(7, 1, "Solar roofs", 10, "admin@adventz.com", true, now)
			ns := notification.Derive(ev, []int64{10, 11, 12})

			Expect(recipients(ns)).To(ConsistOf(int64(1), int64(11), int64(12)))
			Expect(ns[0].UserID).To(Equal(int64(1)))
			Expect(ns[0].Message).To(Equal(`An admin commented on your idea: "Solar roofs".`))
			Expect(ns[1].Message).To(Equal(`admin@adventz.com commented on the idea: "Solar roofs".`))
		})

		It("does not notify the owner when a regular user comments", func() {
			ev := events.NewCommentPostedEvent(7, 1, "Solar roofs", 5, "colleague@adventz.com", false, now)
			ns := notification.Derive(ev, []int64{10})

			Expect(recipients(ns)).To(Equal([]int64{10}))
		})

		It("does not notify an admin owner about their own comment", func() {
			ev := events.NewCommentPostedEvent(7, 10, "Solar roofs", 10, "admin@adventz.com", true, now)
			ns := notification.Derive(ev, []int64{10, 11})

			Expect(recipients(ns)).To(Equal([]int64{11}))
		})
	})
})
