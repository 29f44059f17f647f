package model

// Contact is the data structure for a person that we know, as returned by the REST API.
type Contact struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CreatedAt int64  `json:"createdAt"`
}

// NewContact is the request body for creating a contact. It is also the response body of a
// successful extraction, so that an extracted contact can be submitted as is.
type NewContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ExtractRequest is the request body for extracting a contact from free text.
type ExtractRequest struct {
	Text string `json:"text"`
}

// Message is the body of every response that does not carry contact data.
type Message struct {
	Message string `json:"message"`
}
