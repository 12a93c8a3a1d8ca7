package apimodels

// AskRequest is the body accepted by POST /ask and POST /ask/stream.
type AskRequest struct {
	// UserQuery is the natural language question to answer
	UserQuery string `json:"user_query"`

	// Steps optionally seeds the trace log (defaults to empty)
	Steps []string `json:"steps,omitempty"`

	// Type selects the response shape: 1 = structured card, 2 = markdown text
	Type int `json:"type,omitempty"`

	// Latitude/Longitude optionally locate the user for answer context
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
