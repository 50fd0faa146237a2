package communication

import (
	"schoolerp/internal/domain/account"
	"schoolerp/internal/domain/validation"
)

// Post types, in form order.
var PostTypes = []string{"announcement", "news", "event", "alert"}

// Post is a feed item.
type Post struct {
	ID         string        `json:"id"`
	SenderID   string        `json:"sender_id"`
	Title      *string       `json:"title"`
	Body       *string       `json:"body"`
	Type       *string       `json:"type"`
	TargetRole *account.Role `json:"target_role"`
	CreatedAt  string        `json:"created_at"`
	SenderName string        `json:"sender_name,omitempty"`
}

// Kind returns the post type, defaulting to "news".
func (p Post) Kind() string {
	if p.Type == nil || *p.Type == "" {
		return "news"
	}
	return *p.Type
}

// TypeColor returns the accent colour for a post type.
func TypeColor(kind string) string {
	switch kind {
	case "announcement":
		return "#0078d4"
	case "news":
		return "#107c10"
	case "event":
		return "#5c2d91"
	case "alert":
		return "#d83b01"
	default:
		return "#999999"
	}
}

// CreatePostRequest is the body of POST /communications. A nil TargetRole
// addresses everyone.
type CreatePostRequest struct {
	Title      string        `json:"title" validate:"required,max=200"`
	Body       string        `json:"body" validate:"required,max=10000"`
	Type       string        `json:"type" validate:"required,oneof=announcement news event alert"`
	TargetRole *account.Role `json:"target_role,omitempty" validate:"omitempty,gte=1,lte=3"`
}

// Validate checks the request before it is sent.
func (r CreatePostRequest) Validate() error {
	return validation.Struct(r)
}
