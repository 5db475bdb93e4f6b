package service

import "go-warung-pos/internal/ws"

// Actor is the authenticated user performing a mutation.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// SystemActor is used by jobs and seeding.
var SystemActor = Actor{ID: "system", Name: "System"}

func (a Actor) wsUser() *ws.User {
	return &ws.User{ID: a.ID, Name: a.Name, Email: a.Email}
}

func (a Actor) userID() *string {
	if a.ID == "" || a.ID == SystemActor.ID {
		return nil
	}
	id := a.ID
	return &id
}
