package http

import "net/http"

// authTransport sets a credential header on every outbound request.
// The vendor APIs we talk to disagree on the header: Supabase wants "apikey",
// ElevenLabs wants "xi-api-key", GoTrue user calls want a Bearer token.
type authTransport struct {
	header    string
	value     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.value == "" || req.Header.Get(t.header) != "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.header, t.value)

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends "Authorization: Bearer <token>" unless the request already carries one.
func WithAuthToken(token string) HttpOpts {
	value := ""
	if token != "" {
		value = "Bearer " + token
	}
	return WithHeaderAuth("Authorization", value)
}

// WithHeaderAuth sends a static credential in the named header.
func WithHeaderAuth(header, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			header:    header,
			value:     value,
			transport: rt,
		}
	})
}
