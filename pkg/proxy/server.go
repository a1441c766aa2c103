package proxy

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const defaultChunkSize = 1 << 20

// Server logs incoming HTTP requests and optionally forwards them to a
// remote endpoint. Safe for concurrent use.
type Server struct {
	log    zerolog.Logger
	client *http.Client
	count  atomic.Uint64

	mu        sync.RWMutex
	endpoint  string
	chunkSize int
}

// New returns a Server forwarding to endpoint; an empty endpoint makes the
// server log-only, answering 200 to everything.
func New(endpoint string, logger zerolog.Logger) *Server {
	return &Server{
		log:       logger,
		client:    &http.Client{Timeout: 60 * time.Second},
		endpoint:  strings.TrimRight(endpoint, "/"),
		chunkSize: defaultChunkSize,
	}
}

// Handler returns the route table: the runtime configuration endpoints and a
// catch-all that logs (and forwards) everything else.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/__config", s.handleConfigShow).Methods(http.MethodGet)
	r.HandleFunc("/__config/{key}", s.handleConfigSet)
	r.PathPrefix("/").HandlerFunc(s.handleRequest)
	return r
}

// Endpoint returns the current forward target, empty when log-only.
func (s *Server) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint
}

// ChunkSize returns the current relay buffer size.
func (s *Server) ChunkSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunkSize
}

// SetChunkSize overrides the relay buffer size, sizes below one are ignored.
func (s *Server) SetChunkSize(size int) {
	if size <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunkSize = size
}

// handleConfigShow reports the current configuration.
func (s *Server) handleConfigShow(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	endpoint, chunkSize := s.endpoint, s.chunkSize
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "endpoint: %s\ndownload-chunk-size: %d\n", endpoint, chunkSize)
}

// handleConfigSet updates one configuration key; the new value is passed as
// the "value" query parameter, e.g. /__config/endpoint?value=http://host:8000.
func (s *Server) handleConfigSet(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	value := r.URL.Query().Get("value")

	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "endpoint":
		s.endpoint = strings.TrimRight(value, "/")
	case "download-chunk-size":
		size, err := strconv.Atoi(value)
		if err != nil || size <= 0 {
			http.Error(w, "download-chunk-size must be a positive integer", http.StatusBadRequest)
			return
		}
		s.chunkSize = size
	default:
		http.Error(w, fmt.Sprintf("unknown configuration key %q", key), http.StatusNotFound)
		return
	}

	s.log.Info().Str("key", key).Str("value", value).Msg("configuration updated")
	w.WriteHeader(http.StatusOK)
}

// handleRequest logs the request and forwards it when an endpoint is set.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	num := s.count.Add(1)
	id := uuid.NewString()

	var body []byte
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "reading request body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	evt := s.log.Info().
		Uint64("request_num", num).
		Str("request_id", id).
		Str("request_line", fmt.Sprintf("%s %s %s", r.Method, r.URL.RequestURI(), r.Proto)).
		Str("remote", r.RemoteAddr).
		Str("host", r.Host)
	for name, values := range r.Header {
		evt = evt.Str("hdr_"+strings.ToLower(name), strings.Join(values, ","))
	}
	if len(body) > 0 {
		evt = evt.Bytes("body", body)
	}
	evt.Msg("request received")

	endpoint := s.Endpoint()
	if endpoint == "" {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		return
	}

	s.forward(w, r, endpoint, body, num, id)
}

// forward replays the request against the remote endpoint and relays the
// response, preserving headers so signatures computed against the real
// endpoint keep validating.
func (s *Server) forward(w http.ResponseWriter, r *http.Request, endpoint string, body []byte, num uint64, id string) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	out, err := http.NewRequestWithContext(r.Context(), r.Method, endpoint+r.URL.RequestURI(), reader)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	out.Header = r.Header.Clone()
	out.Host = r.Host

	resp, err := s.client.Do(out)
	if err != nil {
		s.log.Error().Uint64("request_num", num).Str("request_id", id).Err(err).Msg("forwarding failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for name, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)

	written, err := io.CopyBuffer(w, resp.Body, make([]byte, s.ChunkSize()))

	evt := s.log.Info()
	if err != nil {
		evt = s.log.Error().Err(err)
	}
	evt.Uint64("request_num", num).
		Str("request_id", id).
		Int("status", resp.StatusCode).
		Int64("relayed_bytes", written).
		Msg("response relayed")
}
