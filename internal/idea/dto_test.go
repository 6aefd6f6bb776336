package idea_test

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/idea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Idea DTOs", func() {
	Describe("IdeaDTO.Validate", func() {
		It("accepts a draft with only a title", func() {
			status, err := idea.IdeaDTO{Title: "Just a title", Status: "draft"}.Validate()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(idea.StatusDraft))
		})

		It("requires a title even for drafts", func() {
			_, err := idea.IdeaDTO{Status: "Draft"}.Validate()
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})

		It("normalizes status case", func() {
			status, err := submittedIdea("Case").Validate()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(idea.StatusSubmitted))

			dto := submittedIdea("Case")
			dto.Status = "under review"
			status, err = dto.Validate()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(idea.StatusUnderReview))
		})

		It("rejects a missing status", func() {
			dto := submittedIdea("No status")
			dto.Status = ""
			_, err := dto.Validate()
			Expect(err).To(MatchError(internal.ErrInvalidStatus))
		})
	})

	Describe("Date", func() {
		It("parses calendar dates and timestamps", func() {
			var dto idea.IdeaDTO
			Expect(json.Unmarshal([]byte(`{"submission_date":"2024-02-03"}`), &dto)).To(Succeed())
			Expect(dto.SubmissionDate.Time).To(Equal(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)))

			Expect(json.Unmarshal([]byte(`{"submission_date":"2024-02-03T10:00:00+02:00"}`), &dto)).To(Succeed())
			Expect(dto.SubmissionDate.Time).To(Equal(time.Date(2024, 2, 3, 8, 0, 0, 0, time.UTC)))
		})

		It("rejects garbage", func() {
			var dto idea.IdeaDTO
			Expect(json.Unmarshal([]byte(`{"submission_date":"yesterday"}`), &dto)).NotTo(Succeed())
		})
	})

	Describe("BulkStatusDTO.Validate", func() {
		It("rejects an empty batch", func() {
			Expect(idea.BulkStatusDTO{}.Validate()).NotTo(Succeed())
		})

		It("tolerates incomplete entries", func() {
			dto := idea.BulkStatusDTO{Updates: []idea.StatusUpdate{{ID: 1}, {Status: "Approved"}}}
			Expect(dto.Validate()).To(Succeed())
		})

		It("rejects an unknown status anywhere in the batch", func() {
			dto := idea.BulkStatusDTO{Updates: []idea.StatusUpdate{{ID: 1, Status: "Approved"}, {ID: 2, Status: "Frozen"}}}
			err := dto.Validate()
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ParseListFilter", func() {
		It("reads every supported parameter", func() {
			q := url.Values{}
			q.Set("search", " solar ")
			q.Set("status", "approved")
			q.Set("category", "Energy")
			q.Set("company", "Adventz")
			q.Set("start_date", "2024-01-01")
			q.Set("end_date", "2024-01-31")

			f, err := idea.ParseListFilter(q)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Search).To(Equal("solar"))
			Expect(f.Status).To(Equal(idea.StatusApproved))
			Expect(f.Category).To(Equal("Energy"))
			Expect(f.Company).To(Equal("Adventz"))
			Expect(*f.EndExclusive()).To(Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("returns an empty filter for no parameters", func() {
			f, err := idea.ParseListFilter(url.Values{})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.StartDate).To(BeNil())
			Expect(f.EndExclusive()).To(BeNil())
		})

		DescribeTable("rejects bad input",
			func(key, value string) {
				q := url.Values{}
				q.Set(key, value)
				if key == "end_date" {
					q.Set("start_date", "2024-06-01")
				}
				_, err := idea.ParseListFilter(q)
				Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
			},
			Entry("unknown status", "status", "Parked"),
			Entry("malformed date", "start_date", "01/02/2024"),
			Entry("end before start", "end_date", "2024-05-01"),
		)
	})
})
