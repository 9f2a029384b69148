package aem

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// API talks to one author and one publish instance with a single credential pair.
type API struct {
	// Author is the base URL of the author instance.
	Author *url.URL
	// Publish is the base URL of the publish instance.
	Publish *url.URL

	// An HTTP client - you can substitute a go-vcr recorder or whatnot.
	Client *http.Client

	user, password string

	retries int
	backoff BackoffConfig
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewAPI validates cfg and builds an API with its own transport.
func NewAPI(cfg Config) (*API, error) {
	if cfg.AuthorURL == "" {
		return nil, fmt.Errorf("aem: configure the author instance with --author")
	}
	if cfg.PublishURL == "" {
		return nil, fmt.Errorf("aem: configure the publish instance with --publish")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("aem: configure a user with --user")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("aem: password is empty, please provide --password")
	}

	author, err := url.ParseRequestURI(cfg.AuthorURL)
	if err != nil {
		return nil, fmt.Errorf("aem: couldn't parse author URL: %w", err)
	}
	publish, err := url.ParseRequestURI(cfg.PublishURL)
	if err != nil {
		return nil, fmt.Errorf("aem: couldn't parse publish URL: %w", err)
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &API{
		Author:   author,
		Publish:  publish,
		Client:   &http.Client{Transport: transport, Timeout: cfg.timeout()},
		user:     cfg.User,
		password: cfg.Password,
		retries:  retries,
		backoff:  cfg.backoff(),
		sleep:    sleepContext,
	}, nil
}

func newTransport(cfg Config) (*http.Transport, error) {
	timeout := cfg.timeout()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	insecure := cfg.AllowInsecure
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("aem: couldn't parse proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		// debugging proxies re-sign TLS traffic
		insecure = true
	}
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return transport, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
