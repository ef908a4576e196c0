package exchange

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/tartampluch/go-dateselect/internal/config"
)

// VCardFetcher retrieves a remote vCard. Empty credentials send no Authorization header.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher implements VCardFetcher over net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the configured timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads targetURL, capped at config.MaxHTTPResponseSize.
// Query parameters are stripped from logs.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Server returned error status", slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("server returned unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// limitedReadCloser caps reads while still closing the underlying body.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}

// Import reads the first birthday from source, an http(s) URL or a local path.
// Credentials only apply to URLs; an empty Pass is looked up in the OS keyring.
func Import(ctx context.Context, source string, fetcher VCardFetcher, creds Credentials) (Birthday, error) {
	var (
		r   io.ReadCloser
		err error
	)
	if strings.HasPrefix(source, config.SchemeHTTP+"://") || strings.HasPrefix(source, config.SchemeHTTPS+"://") {
		if fetcher == nil {
			fetcher = NewHTTPFetcher()
		}
		r, err = fetcher.Fetch(ctx, source, creds.User, creds.password())
	} else {
		r, err = os.Open(source)
	}
	if err != nil {
		return Birthday{}, fmt.Errorf("%s: %w", config.ErrImport, err)
	}
	defer func() { _ = r.Close() }()

	b, err := ReadBirthday(r)
	if err != nil {
		return Birthday{}, fmt.Errorf("%s: %w", config.ErrImport, err)
	}

	slog.Info(config.MsgImported,
		config.LogKeyComponent, config.CompExchange,
		config.LogKeySource, source,
		config.LogKeyDate, b.Date.String(),
	)
	return b, nil
}
