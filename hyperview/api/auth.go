package api

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type Credentials struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	Scope        string
}

// NewTokenSource returns a client-credentials token source that fetches a
// token on first use and reuses it until it expires. The token endpoint is
// not allowed to redirect.
func NewTokenSource(ctx context.Context, credentials Credentials) oauth2.TokenSource {
	config := clientcredentials.Config{
		ClientID:     credentials.ClientID,
		ClientSecret: credentials.ClientSecret,
		TokenURL:     credentials.TokenURL,
	}

	if credentials.Scope != "" {
		config.Scopes = []string{credentials.Scope}
	}

	httpClient := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return config.TokenSource(context.WithValue(ctx, oauth2.HTTPClient, httpClient))
}
