package gemini

import "fmt"

// ProviderError is a non-success HTTP response from the Gemini API. The
// generation attempt is fatal, there is no retry.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini api error: %d - %s", e.StatusCode, e.Body)
}

// MalformedResponseError means the provider answered but its text could not
// be parsed as the expected JSON. Raw keeps the full text for diagnostics.
type MalformedResponseError struct {
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed gemini response: %s. Raw text: %s", e.Reason, e.Raw)
}

// ValidationError means the JSON parsed but violates the quiz contract
// (question count, option count, correct index or empty fields).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid quiz content: %s", e.Reason)
}
