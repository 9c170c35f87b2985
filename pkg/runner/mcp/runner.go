package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/logging"
	"tableflip.dev/sidenav/pkg/prefs"
)

// HTTP defaults.
const (
	DefaultListenAddr = "127.0.0.1:8087"
	DefaultEndpoint   = "/mcp"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// Runner coordinates MCP server startup.
type Runner struct {
	Store   *prefs.Store
	Bus     *events.Bus
	Name    string
	Version string
	Logger  *zap.Logger

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	if r.Store == nil {
		return errors.New("mcp: preference store required")
	}
	name := r.Name
	if name == "" {
		name = "sidenav"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := NewServer(fmt.Sprintf("%s MCP", name), version, NewService(r.Store, r.Bus))

	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("mcp: unknown transport %q", t)
	}
}

// NewServer registers the preference tools and resources.
func NewServer(name, version string, svc *Service) *server.MCPServer {
	srv := server.NewMCPServer(
		name,
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and change navigation layout preferences and check which paths are active."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

// serveHTTP mounts the streamable handler on a chi router and serves it
// until ctx ends.
func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	tls := r.HTTPServerCert != "" || r.HTTPServerKey != ""
	if tls && (r.HTTPServerCert == "" || r.HTTPServerKey == "") {
		return errors.New("mcp: tls needs both a certificate and a key")
	}

	endpoint := "/" + strings.TrimLeft(r.HTTPEndpointPath, "/")
	if endpoint == "/" {
		endpoint = DefaultEndpoint
	}
	addr := r.HTTPListenAddr
	if addr == "" {
		addr = DefaultListenAddr
	}
	log := logging.OrNop(r.Logger)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle(endpoint, server.NewStreamableHTTPServer(srv))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp: listen %s: %w", addr, err)
	}
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}
	log.Info("mcp listening", zap.Stringer("addr", ln.Addr()), zap.String("endpoint", endpoint))

	httpSrv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tls {
			err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
		} else {
			err = httpSrv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
