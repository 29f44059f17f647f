package model

// Length bounds of the name and phone fields, counted in characters.
const (
	MaxNameLength  = 20
	MaxPhoneLength = 15
)

// Contact is the data structure for a person that we know. A contact is created once by the store
// and never changed afterwards, it can only be deleted.
//
// The JSON field names are the layout of the persisted collection and must not change.
type Contact struct {
	Id        string `json:"id"        db:"id"`
	Name      string `json:"name"      db:"name"`
	Phone     string `json:"phone"     db:"phone"`
	CreatedAt int64  `json:"createdAt" db:"created_at"`
}
