package entity

// Requester is the authenticated caller extracted from the session token.
type Requester struct {
	ID    string
	Email string
}
