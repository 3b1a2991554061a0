package scrape

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// FetchResult is a raw HTTP fetch before extraction.
type FetchResult struct {
	StatusCode  int
	Body        []byte
	ContentType string
	URL         string
}

// Fetcher is the first scrape tier: a plain HTTP GET with a browser TLS
// fingerprint. Much cheaper than launching Chromium, so it always runs first.
type Fetcher struct {
	tlsClient tls_client.HttpClient
	retrier   *Retrier
}

// FetcherOptions contains options for creating a Fetcher
type FetcherOptions struct {
	Timeout    time.Duration
	MaxRetries int
	ProxyURL   string
}

// NewFetcher creates a stealth HTTP fetcher
func NewFetcher(opts FetcherOptions) (*Fetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(opts.Timeout.Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
	}
	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	return &Fetcher{
		tlsClient: tlsClient,
		retrier: NewRetrier(RetrierOptions{
			MaxRetries:      opts.MaxRetries,
			InitialInterval: 1 * time.Second,
			MaxInterval:     15 * time.Second,
			Multiplier:      2.0,
		}),
	}, nil
}

// Fetch performs a GET with retry and stealth headers.
func (f *Fetcher) Fetch(ctx context.Context, url string, userAgent string) (*FetchResult, error) {
	var res *FetchResult
	err := f.retrier.Retry(ctx, func() error {
		var err error
		res, err = f.doRequest(url, userAgent)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (f *Fetcher) doRequest(targetURL string, userAgent string) (*FetchResult, error) {
	req, err := fhttp.NewRequest(fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	profile := GetHeaderProfile(StrategyModernBrowser)
	if userAgent != "" {
		profile.UserAgent = userAgent
	}
	req.Header.Set("User-Agent", profile.UserAgent)
	for k, v := range profile.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := f.tlsClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: targetURL, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		ferr := &FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &RetryableError{
				Err:        ferr,
				RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After")).Seconds()),
			}
		}
		return nil, ferr
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") && !strings.Contains(contentType, "text") {
		return nil, &FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("unsupported content type %q", contentType)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &FetchError{URL: targetURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return &FetchResult{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: contentType,
		URL:         targetURL,
	}, nil
}
