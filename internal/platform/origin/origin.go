// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package origin determines the public network origin of a caller for the
IP restriction check.

Architecture:

  - Provider: A named, single-shot lookup function.
  - FirstSuccess: A combinator that tries providers in a fixed order and
    accepts the first parseable IPv4 address.
  - Sources: Request headers (X-Real-IP, X-Forwarded-For, RemoteAddr) and
    a chain of public HTTP echo services.

The remote HTTP chain exists for self-hosted deployments sitting behind a
local reverse proxy: when the request carries no public address, the
deployment's public egress address is the effective origin shared by the
server and its office callers.

Exhaustion of every provider yields [ErrExhausted]. It is an explicit
lookup failure — never a placeholder address — so the access resolver can
apply its fail-open rule deliberately.
*/
package origin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/ipnet"
)

// ErrExhausted is returned when every provider in a chain has failed.
var ErrExhausted = errors.New("origin: all lookup providers exhausted")

// providerTimeout bounds each individual remote lookup.
const providerTimeout = 3 * time.Second

// maxResponseBytes bounds how much of a provider response is read.
const maxResponseBytes = 4 << 10

// Provider is a single origin lookup source.
type Provider struct {
	// Name identifies the provider in logs.
	Name string

	// Lookup returns a candidate address. The result is only accepted if
	// it parses as a dotted-quad IPv4 address.
	Lookup func(ctx context.Context) (string, error)
}

// FirstSuccess tries providers in order and returns the first result that
// is a valid IPv4 address. Provider errors and unparseable results move on
// to the next provider; if none succeeds, ErrExhausted is returned.
func FirstSuccess(ctx context.Context, providers []Provider) (string, error) {
	for _, provider := range providers {
		if ctx.Err() != nil {
			return "", fmt.Errorf("origin: lookup cancelled: %w", ctx.Err())
		}

		candidate, err := provider.Lookup(ctx)
		if err != nil {
			continue
		}

		candidate = strings.TrimSpace(candidate)
		if ipnet.IsValidIPv4(candidate) {
			return candidate, nil
		}
	}

	return "", ErrExhausted
}

// # Request-Derived Sources

// nonPublicRanges covers loopback, RFC 1918 private, and link-local space.
var nonPublicRanges = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
}

// IsPublic reports whether ip is a valid IPv4 address outside loopback,
// private, and link-local space.
func IsPublic(ip string) bool {
	if !ipnet.IsValidIPv4(ip) {
		return false
	}
	return !ipnet.IsAllowed(ip, nonPublicRanges)
}

// FromRequest builds the request-derived provider chain: proxy headers
// first, then the transport address. Each source only yields a result when
// the address is public; private hops defer to the remote HTTP chain.
func FromRequest(request *http.Request) []Provider {
	headerProvider := func(name, value string) Provider {
		return Provider{
			Name: name,
			Lookup: func(context.Context) (string, error) {
				if !IsPublic(value) {
					return "", fmt.Errorf("origin: %s is not a public address", name)
				}
				return value, nil
			},
		}
	}

	realIP := strings.TrimSpace(request.Header.Get("X-Real-IP"))

	// Only the first (client-most) hop of X-Forwarded-For is trusted.
	forwarded := request.Header.Get("X-Forwarded-For")
	firstHop := strings.TrimSpace(strings.Split(forwarded, ",")[0])

	remoteHost, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		remoteHost = request.RemoteAddr
	}

	return []Provider{
		headerProvider("x-real-ip", realIP),
		headerProvider("x-forwarded-for", firstHop),
		headerProvider("remote-addr", remoteHost),
	}
}

// # Remote HTTP Sources

// HTTPProviders builds the fixed-order chain of public IP echo services.
// Each response shape differs; JSON bodies expose the address under "ip",
// the AWS endpoint answers in plain text.
func HTTPProviders(client *http.Client) []Provider {
	if client == nil {
		client = &http.Client{Timeout: providerTimeout}
	}

	return []Provider{
		{Name: "ipify", Lookup: jsonLookup(client, "https://api.ipify.org?format=json")},
		{Name: "ipapi", Lookup: jsonLookup(client, "https://ipapi.co/json/")},
		{Name: "jsonip", Lookup: jsonLookup(client, "https://jsonip.com")},
		{Name: "aws-checkip", Lookup: textLookup(client, "https://checkip.amazonaws.com/")},
	}
}

// CustomHTTPProviders builds a chain from operator-supplied endpoint URLs.
// Every endpoint is read as plain text first and falls back to the JSON
// "ip" field, so both response families work without configuration.
func CustomHTTPProviders(client *http.Client, urls []string) []Provider {
	if client == nil {
		client = &http.Client{Timeout: providerTimeout}
	}

	providers := make([]Provider, 0, len(urls))
	for _, url := range urls {
		url := strings.TrimSpace(url)
		if url == "" {
			continue
		}
		providers = append(providers, Provider{
			Name:   url,
			Lookup: flexibleLookup(client, url),
		})
	}
	return providers
}

func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	requestCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("origin: build request for %s: %w", url, err)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("origin: fetch %s: %w", url, err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("origin: %s returned status %d", url, response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("origin: read %s: %w", url, err)
	}

	return body, nil
}

func jsonLookup(client *http.Client, url string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		body, err := fetchBody(ctx, client, url)
		if err != nil {
			return "", err
		}

		var payload struct {
			IP string `json:"ip"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", fmt.Errorf("origin: decode %s: %w", url, err)
		}

		return payload.IP, nil
	}
}

func textLookup(client *http.Client, url string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		body, err := fetchBody(ctx, client, url)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(body)), nil
	}
}

func flexibleLookup(client *http.Client, url string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		body, err := fetchBody(ctx, client, url)
		if err != nil {
			return "", err
		}

		text := strings.TrimSpace(string(body))
		if ipnet.IsValidIPv4(text) {
			return text, nil
		}

		var payload struct {
			IP string `json:"ip"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", fmt.Errorf("origin: decode %s: %w", url, err)
		}

		return payload.IP, nil
	}
}
