package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// VerifyPayload is the body of both the client-side verification endpoint's
// response and the checkout redirect handler. Message is set on idempotent
// short-circuits ("already verified") as well as fresh successes.
type VerifyPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
