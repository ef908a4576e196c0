package exchange_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
	"github.com/tartampluch/go-dateselect/internal/exchange"
	"github.com/zalando/go-keyring"
)

// MockFetcher simulates the network layer using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

const aliceCard = "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Alice\r\nBDAY:1990-08-01\r\nEND:VCARD\r\n"

func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent), "User-Agent mismatch")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(aliceCard))
	}))
	defer ts.Close()

	rc, err := exchange.NewHTTPFetcher().Fetch(context.Background(), ts.URL+"/card.vcf?token=secret", "", "")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, aliceCard, string(body))
}

func TestHTTPFetcher_Fetch_SizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", config.MaxHTTPResponseSize+10)))
	}))
	defer ts.Close()

	rc, err := exchange.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Len(t, body, config.MaxHTTPResponseSize)
}

func TestHTTPFetcher_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"ServerError", http.StatusInternalServerError, "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			rc, err := exchange.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
			assert.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := exchange.NewHTTPFetcher().Fetch(ctx, ts.URL, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPFetcher_Fetch_RejectsInput(t *testing.T) {
	f := exchange.NewHTTPFetcher()

	_, err := f.Fetch(context.Background(), string([]byte{0x7f}), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)

	_, err = f.Fetch(context.Background(), "ftp://example.com/file.vcf", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}

func TestImport_URL(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://example.com/alice.vcf", "", "").
		Return(io.NopCloser(strings.NewReader(aliceCard)), nil)

	b, err := exchange.Import(context.Background(), "https://example.com/alice.vcf", fetcher, exchange.Credentials{})
	require.NoError(t, err)

	assert.Equal(t, "Alice", b.Name)
	assert.Equal(t, engine.NewSelectionDate(1990, 7, 1), b.Date)
	fetcher.AssertExpectations(t)
}

func TestImport_URLFailure(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "http://example.com/x.vcf", "", "").Return(nil, errors.New("boom"))

	_, err := exchange.Import(context.Background(), "http://example.com/x.vcf", fetcher, exchange.Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrImport)
}

func TestImport_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alice.vcf")
	require.NoError(t, os.WriteFile(path, []byte(aliceCard), config.FilePermUserRW))

	b, err := exchange.Import(context.Background(), path, nil, exchange.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, engine.NewSelectionDate(1990, 7, 1), b.Date)

	_, err = exchange.Import(context.Background(), filepath.Join(t.TempDir(), "missing.vcf"), nil, exchange.Credentials{})
	assert.Error(t, err)
}

func TestHTTPFetcher_Fetch_BasicAuth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(aliceCard))
	}))
	defer ts.Close()

	f := exchange.NewHTTPFetcher()

	rc, err := f.Fetch(context.Background(), ts.URL, "alice", "s3cret")
	require.NoError(t, err)
	_ = rc.Close()

	_, err = f.Fetch(context.Background(), ts.URL, "", "")
	assert.Error(t, err, "Anonymous request must be rejected")
}

func TestImport_PasswordFromKeyring(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, exchange.StorePassword("alice", "s3cret"))

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://dav.example.com/alice.vcf", "alice", "s3cret").
		Return(io.NopCloser(strings.NewReader(aliceCard)), nil)

	b, err := exchange.Import(context.Background(), "https://dav.example.com/alice.vcf", fetcher, exchange.Credentials{User: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", b.Name)
	fetcher.AssertExpectations(t)
}

func TestImport_ExplicitPasswordWins(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(config.KeyringService, "alice", "stale"))

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://dav.example.com/alice.vcf", "alice", "fresh").
		Return(io.NopCloser(strings.NewReader(aliceCard)), nil)

	_, err := exchange.Import(context.Background(), "https://dav.example.com/alice.vcf", fetcher, exchange.Credentials{User: "alice", Pass: "fresh"})
	require.NoError(t, err)
	fetcher.AssertExpectations(t)
}

func TestImport_MissingKeyringEntry(t *testing.T) {
	keyring.MockInit()

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://dav.example.com/bob.vcf", "bob", "").
		Return(io.NopCloser(strings.NewReader(aliceCard)), nil)

	_, err := exchange.Import(context.Background(), "https://dav.example.com/bob.vcf", fetcher, exchange.Credentials{User: "bob"})
	require.NoError(t, err, "A missing keyring entry sends an empty password")
	fetcher.AssertExpectations(t)
}
