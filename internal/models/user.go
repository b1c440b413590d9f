package models

import "time"

// User represents the authenticated account returned by the auth endpoints.
type User struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined,omitempty"`
}

// Session is the locally persisted login state: who is logged in, the bearer
// token used on API calls, and the subscription gating premium features.
//
// A zero-value Session (nil User) is the anonymous state.
type Session struct {
	User         *User
	Token        string
	Subscription Subscription
}

// Authenticated reports whether a user is logged in.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// AnonymousSession returns the logged-out default state.
func AnonymousSession() Session {
	return Session{Subscription: FreeSubscription()}
}
