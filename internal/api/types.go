package api

import (
	"time"

	"github.com/hubdeck/hubdeck/internal/session"
)

// Collection is a server-declared dataset: a name, a display title, and
// the ordered field list its rows carry. Immutable for the session once
// fetched.
type Collection struct {
	Title          string   `json:"title"`
	CollectionName string   `json:"collectionName"`
	Fields         []string `json:"fields"`
}

type collectionsResponse struct {
	Collections []Collection `json:"collections"`
}

// SessionPayload is the backend's session shape, returned by both the
// callback exchange and token verification.
type SessionPayload struct {
	Token           string    `json:"token"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Username        string    `json:"username"`
	UserID          string    `json:"userId"`
	IntegrationDate time.Time `json:"integrationDate"`
	LastSyncAt      time.Time `json:"lastSyncAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Profile converts the payload's metadata into the session's profile shape.
func (p *SessionPayload) Profile() session.Profile {
	return session.Profile{
		Email:           p.Email,
		Name:            p.Name,
		Username:        p.Username,
		UserID:          p.UserID,
		IntegrationDate: p.IntegrationDate,
		LastSyncAt:      p.LastSyncAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type authURLResponse struct {
	URL string `json:"url"`
}
