package structs

// Response is the uniform body of every deposit endpoint.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
	Payload any    `json:"payload,omitempty"`
}
