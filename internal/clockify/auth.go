package clockify

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// APIKeyTokenType marks a token whose access token is a Clockify API key.
const APIKeyTokenType = "X-Api-Key"

// ErrNoCredential is returned when the token source yields an empty token.
var ErrNoCredential = errors.New("no API credential configured")

// APIKey returns a token source for a personal API key.
func APIKey(key string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: key,
		TokenType:   APIKeyTokenType,
	})
}

// Transport authenticates requests with tokens from Source. API keys go in
// the X-Api-Key header, anything else in Authorization.
type Transport struct {
	Source oauth2.TokenSource
	// Base defaults to http.DefaultTransport.
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil {
		return nil, ErrNoCredential
	}
	tok, err := t.Source.Token()
	if err != nil {
		return nil, fmt.Errorf("obtaining credential: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, ErrNoCredential
	}

	r := req.Clone(req.Context())
	if tok.TokenType == APIKeyTokenType {
		r.Header.Set("X-Api-Key", tok.AccessToken)
	} else {
		tok.SetAuthHeader(r)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}
