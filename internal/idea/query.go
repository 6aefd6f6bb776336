package idea

import (
	"cmp"
	"slices"

	"github.com/frahmantamala/idea-portal/internal/reaction"
)

// View is an idea decorated with its derived reaction fields.
type View struct {
	*Idea
	Likes        int            `json:"likes"`
	Dislikes     int            `json:"dislikes"`
	Score        int            `json:"score"`
	UserReaction *reaction.Type `json:"user_reaction"`
}

// BuildViews attaches tallies and the viewer's own reaction to each idea.
func BuildViews(ideas []*Idea, votes []reaction.Vote, viewerID int64) []*View {
	tallies, mine := reaction.TallyByIdea(votes, viewerID)

	views := make([]*View, 0, len(ideas))
	for _, i := range ideas {
		t := tallies[i.ID]
		v := &View{
			Idea:     i,
			Likes:    t.Likes,
			Dislikes: t.Dislikes,
			Score:    t.Score,
		}
		if r, ok := mine[i.ID]; ok {
			v.UserReaction = &r
		}
		views = append(views, v)
	}
	return views
}

// Rank orders views by score, then by submission date, both descending.
// Remaining ties keep their input order.
func Rank(views []*View) {
	slices.SortStableFunc(views, func(a, b *View) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return b.SubmissionDate.Compare(a.SubmissionDate)
	})
}
