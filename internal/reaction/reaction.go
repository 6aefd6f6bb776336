package reaction

import (
	"strings"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
)

type Type string

const (
	Like    Type = "like"
	Dislike Type = "dislike"
)

func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Like, Dislike:
		return t, nil
	}
	return "", internal.ErrInvalidReaction
}

// Effect is what a react call did to the caller's stored reaction.
type Effect string

const (
	EffectAdded   Effect = "added"
	EffectRemoved Effect = "removed"
	EffectUpdated Effect = "updated"
)

func (e Effect) Message() string {
	switch e {
	case EffectAdded:
		return "Reaction added"
	case EffectRemoved:
		return "Reaction removed"
	default:
		return "Reaction updated"
	}
}

const (
	ExecutiveLikeWeight = 10
	LikeWeight          = 1
	DislikeWeight       = -1
)

// Weight is the score contribution of one reaction by a user holding role.
func Weight(role policy.Role, t Type) int {
	switch t {
	case Like:
		if role.IsExecutive() {
			return ExecutiveLikeWeight
		}
		return LikeWeight
	case Dislike:
		return DislikeWeight
	}
	return 0
}

// Toggle resolves a react request against the caller's existing reaction.
// It returns the effect and the reaction the caller holds afterwards.
func Toggle(existing *Type, requested Type) (Effect, *Type) {
	switch {
	case existing == nil:
		return EffectAdded, &requested
	case *existing == requested:
		return EffectRemoved, nil
	default:
		return EffectUpdated, &requested
	}
}

type Verdict int

const (
	VerdictApprove Verdict = iota + 1
	VerdictReject
)

// ExecutiveVerdict reports the status decision an executive reaction drives.
// Removing a reaction never drives a decision.
func ExecutiveVerdict(role policy.Role, t Type, effect Effect) (Verdict, bool) {
	if !role.IsExecutive() || effect == EffectRemoved {
		return 0, false
	}
	if t == Like {
		return VerdictApprove, true
	}
	return VerdictReject, true
}

// Vote is a stored reaction paired with the current role of its author.
type Vote struct {
	IdeaID int64
	UserID int64
	Type   Type
	Role   policy.Role
}

type Tally struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
	Score    int `json:"score"`
}

func Summarize(votes []Vote) Tally {
	var t Tally
	for _, v := range votes {
		switch v.Type {
		case Like:
			t.Likes++
		case Dislike:
			t.Dislikes++
		}
		t.Score += Weight(v.Role, v.Type)
	}
	return t
}

// TallyByIdea groups votes per idea and records the viewer's own reaction.
func TallyByIdea(votes []Vote, viewerID int64) (map[int64]Tally, map[int64]Type) {
	grouped := make(map[int64][]Vote)
	mine := make(map[int64]Type)
	for _, v := range votes {
		grouped[v.IdeaID] = append(grouped[v.IdeaID], v)
		if v.UserID == viewerID {
			mine[v.IdeaID] = v.Type
		}
	}
	tallies := make(map[int64]Tally, len(grouped))
	for id, vs := range grouped {
		tallies[id] = Summarize(vs)
	}
	return tallies, mine
}

// Result is returned to the caller of a react operation.
type Result struct {
	Message      string `json:"message"`
	Effect       Effect `json:"effect"`
	Likes        int    `json:"likes"`
	Dislikes     int    `json:"dislikes"`
	Score        int    `json:"score"`
	UserReaction *Type  `json:"user_reaction"`
	Status       string `json:"status"`
}
