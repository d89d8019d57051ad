package harness

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/launchdarkly/js-browser-tests/framework"
)

// Server is the HTTP listener that the browsers under test talk to. It serves static test
// assets from any number of mounted directories, plus whatever dynamic routes the caller adds
// before calling Start.
type Server struct {
	host     string
	port     int
	baseURL  string
	router   *chi.Mux
	server   *http.Server
	listener net.Listener
	group    errgroup.Group
	logger   framework.Logger
	mounts   map[string]bool
	routes   map[string]bool
	running  bool
	lock     sync.Mutex
}

// NewServer creates a Server that will listen on the specified port. The host is only used to
// build the externally visible base URL.
func NewServer(host string, port int, logger framework.Logger) *Server {
	if logger == nil {
		logger = framework.NullLogger()
	}
	s := &Server{
		host:    host,
		port:    port,
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		router:  chi.NewRouter(),
		logger:  logger,
		mounts:  make(map[string]bool),
		routes:  make(map[string]bool),
	}
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Printf("Received request for unrecognized URL path %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})
	return s
}

// MountPrefix normalizes a mount path: "/test/", "test" and "/test" are all "/test".
func MountPrefix(urlPath string) string {
	return "/" + strings.Trim(urlPath, "/")
}

// Mount serves the files in dir below urlPath. Responses are never cacheable. A path can only
// be mounted once, and cannot be the path of a dynamic route.
func (s *Server) Mount(urlPath, dir string) error {
	prefix := MountPrefix(urlPath)
	if s.mounts[prefix] {
		return fmt.Errorf("%s is already mounted", prefix)
	}
	if s.routes[prefix] {
		return fmt.Errorf("cannot mount %s: the path is reserved by the harness", prefix)
	}
	s.mounts[prefix] = true
	handler := NonCaching(http.FileServer(http.Dir(dir)))
	if prefix == "/" {
		s.router.Mount("/", handler)
	} else {
		s.router.Mount(prefix, http.StripPrefix(prefix, handler))
	}
	s.logger.Printf("Serving %s from %s", prefix, dir)
	return nil
}

// Get adds a dynamic route for GET requests.
func (s *Server) Get(path string, handler http.HandlerFunc) {
	s.routes[path] = true
	s.router.Get(path, handler)
}

// Head adds a dynamic route for HEAD requests.
func (s *Server) Head(path string, handler http.HandlerFunc) {
	s.routes[path] = true
	s.router.Head(path, handler)
}

// Handler returns the router, for use without a real listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// BaseURL returns the URL that browsers should use to reach this server. If the server was
// created with port 0, this is only accurate after Start.
func (s *Server) BaseURL() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.baseURL
}

// Start binds the listener and begins serving on a background goroutine. The listener is
// ready to accept connections when Start returns.
func (s *Server) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.running {
		return errors.New("server was already started")
	}
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("could not start listener on port %d: %w", s.port, err)
	}
	if addr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.baseURL = fmt.Sprintf("http://%s:%d", s.host, addr.Port)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:  s.router,
		ErrorLog: log.New(loggerWriter{s.logger}, "", 0),
	}
	server := s.server
	s.group.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	s.running = true
	s.logger.Printf("Listening at %s", s.baseURL)
	return nil
}

// Stop closes the listener and all active connections immediately, then waits for the
// serving goroutine to exit.
func (s *Server) Stop() error {
	s.lock.Lock()
	if !s.running {
		s.lock.Unlock()
		return nil
	}
	s.running = false
	server := s.server
	s.lock.Unlock()

	closeErr := server.Close()
	if err := s.group.Wait(); err != nil {
		return fmt.Errorf("listener failed: %w", err)
	}
	return closeErr
}

type loggerWriter struct {
	logger framework.Logger
}

func (w loggerWriter) Write(p []byte) (int, error) {
	w.logger.Printf("%s", strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
