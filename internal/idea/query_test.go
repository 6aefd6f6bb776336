package idea_test

import (
	"time"

	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/idea"
	"github.com/frahmantamala/idea-portal/internal/reaction"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ranking", func() {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	ideas := func() []*idea.Idea {
		return []*idea.Idea{
			{ID: 1, Title: "Old", SubmissionDate: day(1)},
			{ID: 2, Title: "New", SubmissionDate: day(9)},
			{ID: 3, Title: "Mid", SubmissionDate: day(5)},
			{ID: 4, Title: "Twin", SubmissionDate: day(5)},
		}
	}

	It("decorates ideas with tallies and the viewer's reaction", func() {
		votes := []reaction.Vote{
			{IdeaID: 1, UserID: 10, Type: reaction.Like, Role: policy.RoleCEO},
			{IdeaID: 1, UserID: 11, Type: reaction.Dislike, Role: policy.RoleUser},
			{IdeaID: 3, UserID: 11, Type: reaction.Like, Role: policy.RoleUser},
		}

		views := idea.BuildViews(ideas(), votes, 11)
		Expect(views).To(HaveLen(4))
		Expect(views[0].Likes).To(Equal(1))
		Expect(views[0].Dislikes).To(Equal(1))
		Expect(views[0].Score).To(Equal(9))
		Expect(*views[0].UserReaction).To(Equal(reaction.Dislike))
		Expect(views[1].Score).To(Equal(0))
		Expect(views[1].UserReaction).To(BeNil())
		Expect(*views[2].UserReaction).To(Equal(reaction.Like))
	})

	It("orders by score, then newest submission, then input order", func() {
		votes := []reaction.Vote{
			{IdeaID: 1, UserID: 10, Type: reaction.Like, Role: policy.RoleUser},
		}
		views := idea.BuildViews(ideas(), votes, 0)
		idea.Rank(views)

		ids := make([]int64, 0, len(views))
		for _, v := range views {
			ids = append(ids, v.ID)
		}
		Expect(ids).To(Equal([]int64{1, 2, 3, 4}))
	})

	It("lets a negative score sink below unreacted ideas", func() {
		votes := []reaction.Vote{
			{IdeaID: 2, UserID: 10, Type: reaction.Dislike, Role: policy.RoleUser},
		}
		views := idea.BuildViews(ideas(), votes, 0)
		idea.Rank(views)
		Expect(views[len(views)-1].ID).To(Equal(int64(2)))
	})
})
