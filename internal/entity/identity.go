package entity

// Identity is the logged-in identity bound to a single live connection. It is
// created at login and destroyed at disconnect; usernames are not required to
// be unique across connections.
type Identity struct {
	ConnID   string `json:"conn_id"`
	Username string `json:"username"`
}
