// Package ownership holds the authorization rules for entity mutation.
//
// Authorization rules:
//   - Every entity is owner-only. The administrator role carries no
//     override here; it only unlocks category management.
//   - Posts and comments belong to their author.
//   - Events and parties belong to their organizer.
//   - Questions belong to the asking user; answers belong to the parent
//     event's organizer.
//   - Accounts belong to themselves.
//
// Callers resolve the entity first and only then consult the policy, so a
// missing entity reads as not found rather than forbidden.
package ownership

import (
	"net/http"

	"github.com/eventra/eventra/internal/app/system/authz"
	"github.com/eventra/eventra/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanModifyPost reports whether the current request user may edit or delete
// the post.
func CanModifyPost(r *http.Request, p *models.Post) bool {
	return owns(r, p.AuthorID)
}

// CanModifyComment reports whether the current request user may delete the
// comment.
func CanModifyComment(r *http.Request, cm *models.Comment) bool {
	return owns(r, cm.AuthorID)
}

// CanModifyGathering reports whether the current request user may edit or
// delete the event or party.
func CanModifyGathering(r *http.Request, g *models.Gathering) bool {
	return owns(r, g.OrganizerID)
}

// CanDeleteQuestion reports whether the current request user may delete the
// question. Only the asking user may.
func CanDeleteQuestion(r *http.Request, f *models.FAQ) bool {
	return owns(r, f.AuthorID)
}

// CanAnswerQuestion reports whether the current request user may answer a
// question on the given event. Answers come from the event's organizer,
// never the asker.
func CanAnswerQuestion(r *http.Request, event *models.Gathering) bool {
	return owns(r, event.OrganizerID)
}

// CanModifyUser reports whether the current request user may edit or delete
// the target account.
func CanModifyUser(r *http.Request, targetID primitive.ObjectID) bool {
	return owns(r, targetID)
}

func owns(r *http.Request, ownerID primitive.ObjectID) bool {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return uid == ownerID
}
