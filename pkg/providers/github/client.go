package github

import (
	"context"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.github.com"

// NewAPIClient builds a go-github client authenticated with the given
// bearer token. A non-empty baseURL replaces the public API endpoint.
func NewAPIClient(ctx context.Context, token, baseURL string) (*gh.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gh.NewClient(oauth2.NewClient(ctx, ts))

	base := normalizeBaseURL(baseURL)
	if base == defaultBaseURL {
		return client, nil
	}
	// go-github requires a trailing slash on BaseURL.
	parsed, err := url.Parse(base + "/")
	if err != nil {
		return nil, err
	}
	client.BaseURL = parsed
	return client, nil
}

func normalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(base, "/")
}
