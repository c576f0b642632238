// Package relayserver hosts the research relay: a WebSocket endpoint
// dispatching search/web and fetch/url requests, plus CORS-enabled HTTP
// control endpoints for browser callers.
package relayserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mkarlin/inkwell/internal/debug"
	"github.com/mkarlin/inkwell/internal/relay"
)

const writeTimeout = 10 * time.Second

// Searcher performs a web search. Implemented by the search manager.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]relay.SearchResult, error)
}

// Fetcher retrieves readable text for a URL. Implemented by the fetch
// package.
type Fetcher interface {
	Fetch(ctx context.Context, url string, summarize bool) (relay.FetchResult, error)
}

// Config holds relay server configuration.
type Config struct {
	Addr           string // listen address, e.g. ":8532"
	AllowedOrigin  string // CORS origin for control endpoints ("*" if empty)
	DefaultResults int    // search result count when the client sends none
}

// Server is the relay server. Each connection is an isolated context;
// the only state shared across connections is the configuration and the
// injected collaborators.
type Server struct {
	cfg       Config
	searcher  Searcher
	fetcher   Fetcher
	upgrader  websocket.Upgrader
	httpSrv   *http.Server
	startedAt time.Time
}

// New creates a relay server around the given collaborators.
func New(cfg Config, searcher Searcher, fetcher Fetcher) *Server {
	if cfg.DefaultResults <= 0 {
		cfg.DefaultResults = 5
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	return &Server{
		cfg:      cfg,
		searcher: searcher,
		fetcher:  fetcher,
		upgrader: websocket.Upgrader{
			// Browser webviews connect from arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		startedAt: time.Now().UTC(),
	}
}

// Handler returns the HTTP handler serving /ws plus control endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.withCORS(s.handleHealth))
	mux.HandleFunc("/api/status", s.withCORS(s.handleStatus))
	return mux
}

// ListenAndServe runs the server until Shutdown.
func (s *Server) ListenAndServe() error {
	s.httpSrv = &http.Server{Addr: s.cfg.Addr, Handler: s.Handler()}
	log.Printf("[RelayServer] Listening on %s", s.cfg.Addr)
	log.Printf("[RelayServer] WebSocket: ws://localhost%s/ws", s.cfg.Addr)
	log.Printf("[RelayServer] Health check: http://localhost%s/health", s.cfg.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":         true,
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
	})
}

// handleWebSocket serves one client connection. Frames are read on this
// goroutine; each request runs on its own goroutine so slow fetches do
// not block unrelated requests, and responses may complete out of order.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[RelayServer] WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[RelayServer] Client connected from %s", r.RemoteAddr)

	var (
		writeMu sync.Mutex
		wg      sync.WaitGroup
	)
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	defer wg.Wait()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[RelayServer] Client disconnected")
			} else {
				log.Printf("[RelayServer] Read error: %v", err)
			}
			return
		}

		req, perr := decodeRequest(message)
		if perr != nil {
			if req == nil || len(req.ID) == 0 {
				// No id means no way to correlate an error response.
				log.Printf("[RelayServer] Dropping frame without id: %v", perr)
				continue
			}
			s.writeError(conn, &writeMu, req.ID, perr)
			continue
		}

		wg.Add(1)
		go func(req *relay.Request) {
			defer wg.Done()
			s.serveRequest(ctx, conn, &writeMu, req)
		}(req)
	}
}

// decodeRequest validates one inbound frame. It returns the partially
// decoded request even on error so the caller can correlate the error
// response when an id is present.
func decodeRequest(message []byte) (*relay.Request, error) {
	var req relay.Request
	if err := json.Unmarshal(message, &req); err != nil {
		return nil, relay.Errorf(relay.KindProtocol, "malformed frame: %v", err)
	}
	if len(req.ID) == 0 || string(req.ID) == "null" {
		return &req, relay.Errorf(relay.KindProtocol, "missing id")
	}
	if req.Method == "" {
		return &req, relay.Errorf(relay.KindProtocol, "missing method")
	}
	return &req, nil
}

func (s *Server) serveRequest(ctx context.Context, conn *websocket.Conn, writeMu *sync.Mutex, req *relay.Request) {
	debug.Log("Handling %s (id=%s)", req.Method, req.ID)

	var (
		result any
		err    error
	)
	switch req.Method {
	case relay.MethodSearch:
		result, err = s.handleSearch(ctx, req.Params)
	case relay.MethodFetchURL:
		result, err = s.handleFetch(ctx, req.Params)
	default:
		err = relay.Errorf(relay.KindProtocol, "unknown method: %s", req.Method)
	}

	if err != nil {
		log.Printf("[RelayServer] %s failed: %v", req.Method, err)
		s.writeError(conn, writeMu, req.ID, err)
		return
	}
	s.writeResult(conn, writeMu, req.ID, result)
}

func (s *Server) handleSearch(ctx context.Context, params json.RawMessage) (any, error) {
	var p relay.SearchParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, relay.Errorf(relay.KindProtocol, "malformed search params: %v", err)
		}
	}
	limit := p.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultResults
	}

	results, err := s.searcher.Search(ctx, p.Query, limit)
	if err != nil {
		return nil, err
	}
	return relay.SearchResultSet{Results: results}, nil
}

func (s *Server) handleFetch(ctx context.Context, params json.RawMessage) (any, error) {
	var p relay.FetchParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, relay.Errorf(relay.KindProtocol, "malformed fetch params: %v", err)
		}
	}
	return s.fetcher.Fetch(ctx, p.URL, p.Summarize)
}

func (s *Server) writeResult(conn *websocket.Conn, writeMu *sync.Mutex, id json.RawMessage, result any) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.writeError(conn, writeMu, id, relay.Errorf(relay.KindProtocol, "failed to encode result: %v", err))
		return
	}
	s.writeFrame(conn, writeMu, &relay.Response{ID: id, Result: raw})
}

func (s *Server) writeError(conn *websocket.Conn, writeMu *sync.Mutex, id json.RawMessage, err error) {
	s.writeFrame(conn, writeMu, &relay.Response{ID: id, Error: relay.ToPayload(err)})
}

func (s *Server) writeFrame(conn *websocket.Conn, writeMu *sync.Mutex, resp *relay.Response) {
	writeMu.Lock()
	defer writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("[RelayServer] Write error: %v", err)
	}
}
