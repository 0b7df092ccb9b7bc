package web

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mypyreveal/internal/config"
	"mypyreveal/internal/model"
	"mypyreveal/internal/render"
	"mypyreveal/internal/reveal"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// maxBody caps the size of a reveal request.
const maxBody = 8 << 20

// Server exposes the reveal action over HTTP.
type Server struct {
	revealer *reveal.Revealer
	options  config.Options // Server-wide configuration sources
	logger   *log.Logger

	group singleflight.Group
	mu    sync.Mutex
	locks map[string]*bufferLock
}

// bufferLock is dropped from Server.locks when its last holder releases it.
type bufferLock struct {
	sync.Mutex
	refs int
}

// NewServer returns a Server revealing through r. opts supplies the settings
// store and any server-wide executable or timeout override.
func NewServer(r *reveal.Revealer, opts config.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		revealer: r,
		options:  opts,
		logger:   logger,
		locks:    make(map[string]*bufferLock),
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("/api/reveal", s.handleReveal)
	mux.HandleFunc("/api/help", handleHelp)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	fmt.Printf("Starting mypyreveal server at http://%s\n", displayAddr(addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RevealRequest is the body of POST /api/reveal. The executable and project
// file come from the server's own configuration, never from the request.
type RevealRequest struct {
	Path   string `json:"path,omitempty"`   // Buffer file; read when Source is empty
	Source string `json:"source,omitempty"` // Buffer text
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line,omitempty"` // 1-based; overrides Start/End when set
	Col    int    `json:"col,omitempty"`
	Locals bool   `json:"locals,omitempty"`
}

// RevealResponse is the reply of POST /api/reveal.
type RevealResponse struct {
	model.Result
	Popup      string `json:"popup"`
	Text       string `json:"text"`
	Executable string `json:"executable"`
	Dir        string `json:"dir,omitempty"`
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// A JSON body forces a CORS preflight, so other sites cannot post here.
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		http.Error(w, "content type must be application/json", http.StatusUnsupportedMediaType)
		return
	}
	if !sameOrigin(r) {
		http.Error(w, "cross-origin request refused", http.StatusForbidden)
		return
	}

	var req RevealRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		if req.Path == "" || req.Path == "-" {
			http.Error(w, "source or path is required", http.StatusBadRequest)
			return
		}
		src, err := model.ReadSource(config.ExpandHome(req.Path), nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		req.Source = src
	}

	key := requestKey(req)
	v, err, shared := s.group.Do(key, func() (any, error) {
		// shared by every caller, so one client going away must not cancel it
		return s.reveal(context.WithoutCancel(r.Context()), req)
	})
	if shared {
		s.logger.Printf("coalesced reveal request %s", key[:12])
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, reveal.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// reveal serialises requests on the same buffer.
func (s *Server) reveal(ctx context.Context, req RevealRequest) (RevealResponse, error) {
	unlock := s.lockBuffer(bufferKey(req))
	defer unlock()

	opts := s.options
	opts.BufferPath = req.Path
	resolved := config.Resolve(opts, s.logger)

	buf := model.NewBuffer(req.Source)
	span := model.Span{Start: req.Start, End: req.End}
	if req.Line > 0 {
		off := buf.Offset(req.Line, req.Col)
		span = model.Span{Start: off, End: off}
	}

	res, err := s.revealer.Reveal(ctx, reveal.Request{
		Source:     req.Source,
		Span:       span,
		Locals:     req.Locals,
		Executable: resolved.Executable,
		Dir:        resolved.Dir,
		Timeout:    resolved.Timeout,
	})
	if err != nil {
		return RevealResponse{}, err
	}
	return RevealResponse{
		Result:     res,
		Popup:      render.Popup(res.Content, render.PopupMinHeight),
		Text:       render.Strip(res.Content),
		Executable: resolved.Executable,
		Dir:        resolved.Dir,
	}, nil
}

// lockBuffer locks the buffer named by key and returns its unlock function.
func (s *Server) lockBuffer(key string) func() {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &bufferLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// sameOrigin accepts requests without an Origin header (editors, curl) and
// browser requests from the page this server serves.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// bufferKey identifies the buffer a request works on.
func bufferKey(req RevealRequest) string {
	if req.Path != "" {
		return "path:" + req.Path
	}
	sum := sha256.Sum256([]byte(req.Source))
	return "source:" + hex.EncodeToString(sum[:])
}

// requestKey identifies identical requests so overlapping repeats share a run.
func requestKey(req RevealRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	// Use the embedded help content
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
