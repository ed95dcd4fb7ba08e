package http

import "net/http"

// headerTransport sets one header on every outgoing request
type headerTransport struct {
	key       string
	value     string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.key, t.value)
	return t.transport.RoundTrip(reqCopy)
}

// WithAuthHeader sends value in the given header; an empty value adds nothing
func WithAuthHeader(key, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		if value == "" {
			return rt
		}
		return &headerTransport{key: key, value: value, transport: rt}
	})
}

// WithAuthToken sends "Authorization: Bearer <token>" when token is set
func WithAuthToken(token string) HttpOpts {
	if token == "" {
		return WithAuthHeader("Authorization", "")
	}
	return WithAuthHeader("Authorization", "Bearer "+token)
}
