package web

import (
	"net/http"

	"schoolerp/internal/adapters/http/middleware"
	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/communication"
	"schoolerp/internal/domain/navigation"
)

type communicationPage struct {
	Posts     []communication.Post
	PostTypes []string
	Roles     []account.Role
}

// handleCommunication renders the feed.
func (a *app) handleCommunication(w http.ResponseWriter, r *http.Request) {
	a.renderCommunication(w, r, http.StatusOK, "")
}

func (a *app) renderCommunication(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	data := communicationPage{PostTypes: communication.PostTypes, Roles: account.ValidRoles}
	feed, err := a.api.Communication.GetFeed(r.Context())
	if err = outcome(feed, err); err != nil {
		if a.sessionLost(w, r, err) {
			return
		}
		if errMsg == "" {
			errMsg = userMessage(err)
			status = failureStatus(err)
		}
	} else {
		data.Posts = feed.Data
	}
	renderTemplate(w, r, status, "communication.html", pageData{
		Title:  "Communication",
		Active: navigation.KeyCommunication,
		Error:  errMsg,
		Data:   data,
	})
}

// handleCreatePost publishes a post. Guardians read the feed but cannot post.
func (a *app) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	role := middleware.Current(r).Role()
	if role != account.RoleAdmin && role != account.RoleTeacher {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	a.submit(w, r, "/communication", "Post published", func(status int, msg string) {
		a.renderCommunication(w, r, status, msg)
	}, func() error {
		req := communication.CreatePostRequest{
			Title: formString(r, "title"),
			Body:  formString(r, "body"),
			Type:  formString(r, "type"),
		}
		if target := account.ParseRole(r.FormValue("target_role")); target != account.RoleNone {
			req.TargetRole = &target
		}
		return outcome(a.api.Communication.CreatePost(r.Context(), req))
	})
}
