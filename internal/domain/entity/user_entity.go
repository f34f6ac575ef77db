package entity

// User is the only resource exposed by the API.
// Instances are built per request and never stored.
type User struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}
