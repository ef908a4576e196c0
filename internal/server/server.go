package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
	"github.com/tartampluch/go-dateselect/internal/exchange"
)

// Snapshot is the published state of a Selector.
type Snapshot struct {
	// Value is nil while the selection is incomplete.
	Value  *engine.SelectionDate `json:"value"`
	Range  engine.YearRange      `json:"range"`
	Years  []int                 `json:"years"`
	Months []int                 `json:"months"`
	Days   []int                 `json:"days"`

	// Summary titles the calendar event; it is not part of the JSON body.
	Summary string `json:"-"`
}

// SnapshotOf captures the selector's current value and candidate lists.
func SnapshotOf(s *engine.Selector, summary string) Snapshot {
	snap := Snapshot{
		Range:   s.YearRange(),
		Years:   s.Years(),
		Months:  s.Months(),
		Days:    s.Days(),
		Summary: summary,
	}
	if v := s.Value(); v.Complete() {
		snap.Value = &v
	}
	return snap
}

// document is one rendered representation and its validator.
type document struct {
	data []byte
	etag string
}

// cacheItem stores the rendered representations of one snapshot.
type cacheItem struct {
	json document
	ics  *document // nil while the selection is incomplete
}

// SelectionServer publishes the latest snapshot over HTTP on localhost.
type SelectionServer struct {
	// cache is swapped atomically so handlers never see a half-built item.
	cache atomic.Pointer[cacheItem]
	Port  string
	Clock engine.Clock
}

// NewSelectionServer creates a server for port.
func NewSelectionServer(port string) *SelectionServer {
	return &SelectionServer{
		Port:  port,
		Clock: engine.RealClock{},
	}
}

// Handler returns the routes served by Start.
func (s *SelectionServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteSelectionJSON, s.handleJSON)
	mux.HandleFunc(config.RouteSelectionICS, s.handleICS)
	return mux
}

// Start serves until ctx is cancelled.
func (s *SelectionServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update renders snap and atomically replaces the served content.
func (s *SelectionServer) Update(snap Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}

	item := &cacheItem{json: newDocument(body)}

	if snap.Value != nil {
		ics, err := exchange.EncodeEvent(*snap.Value, snap.Summary, s.Clock.Now())
		if err != nil {
			return err
		}
		doc := newDocument(ics)
		item.ics = &doc
	}

	s.cache.Store(item)

	if item.ics == nil {
		slog.Debug(config.MsgCacheCleared, config.LogKeyComponent, config.CompServer)
		return nil
	}
	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(item.ics.data),
		config.LogKeyETag, item.ics.etag,
	)
	return nil
}

func newDocument(data []byte) document {
	hash := sha256.Sum256(data)
	return document{data: data, etag: fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))}
}

func (s *SelectionServer) handleJSON(w http.ResponseWriter, r *http.Request) {
	item, ok := s.load(w, r)
	if !ok {
		return
	}
	serve(w, r, item.json, config.MimeJSON)
}

func (s *SelectionServer) handleICS(w http.ResponseWriter, r *http.Request) {
	item, ok := s.load(w, r)
	if !ok {
		return
	}
	if item.ics == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgIncomplete, http.StatusServiceUnavailable)
		return
	}
	serve(w, r, *item.ics, config.MimeTextCalendar)
}

// load validates the method and returns the cached item, writing the error response otherwise.
func (s *SelectionServer) load(w http.ResponseWriter, r *http.Request) (*cacheItem, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return nil, false
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgIncomplete, http.StatusServiceUnavailable)
		return nil, false
	}
	return item, true
}

func serve(w http.ResponseWriter, r *http.Request, doc document, mime string) {
	w.Header().Set(config.HeaderContentType, mime)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, doc.etag)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == doc.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(doc.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
