package query

// Request is the body sent to the backend's query route
type Request struct {
	Query    string   `json:"query"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the per-call correlation tokens
type Metadata struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// Response is the body returned by the backend's query route.
// Response is a pointer so that an absent field can be told apart from an empty one.
type Response struct {
	Response  *string        `json:"response"`
	Sources   []Source       `json:"sources,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp float64        `json:"timestamp,omitempty"`
}

// Text returns the reply text, or an empty string when absent
func (r *Response) Text() string {
	if r == nil || r.Response == nil {
		return ""
	}
	return *r.Response
}

// Source is one retrieved document chunk cited by the backend
type Source struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Content string `json:"content,omitempty"`
}

// HealthStatus is the body returned by the backend's health route
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Healthy reports whether the backend declared itself healthy
func (h *HealthStatus) Healthy() bool {
	return h != nil && h.Status == "healthy"
}
