package dto

// SuccessResponse is returned by login, logout and save.
type SuccessResponse struct {
	Success bool `json:"success"`
	Updated *int `json:"updated,omitempty"`
}

// VerifyResponse reports the session state. Username is omitted when anonymous.
type VerifyResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}
