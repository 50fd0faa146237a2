package api

import (
	"context"
	"net/http"

	"schoolerp/internal/domain/communication"
)

// CommunicationAPI covers /communications.
type CommunicationAPI struct{ c *Client }

// GetFeed lists the posts visible to the caller's role.
func (a *CommunicationAPI) GetFeed(ctx context.Context) (*Envelope[[]communication.Post], error) {
	return call[[]communication.Post](ctx, a.c, http.MethodGet, "/communications/feed", nil)
}

// CreatePost publishes a post.
func (a *CommunicationAPI) CreatePost(ctx context.Context, req communication.CreatePostRequest) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodPost, "/communications", req)
}
