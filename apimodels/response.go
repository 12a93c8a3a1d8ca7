package apimodels

// AskResponse wraps the outcome of a pipeline run.
type AskResponse struct {
	// Result is either a markdown string (type 2) or a Card (type 1)
	Result any `json:"result"`

	// Steps is the ordered trace of pipeline steps taken
	Steps []string `json:"steps,omitempty"`
}

// Card is the structured answer returned in card mode.
type Card struct {
	// Rating of the environmental impact, 0-100
	Rating int `json:"rating"`

	// Text is the comprehensive answer body
	Text string `json:"text"`

	// Citations are markdown links to supporting sources, at least one
	Citations []string `json:"citations"`

	// Recommendations are 2-3 actionable suggestions
	Recommendations []string `json:"recommendations"`

	// SuggestedQuestions are related follow-up questions
	SuggestedQuestions []string `json:"suggestedQuestions"`
}

// ErrorResponse reports a caller mistake without failing the request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DetailResponse carries authentication and internal failure details.
type DetailResponse struct {
	Detail string `json:"detail"`
}
