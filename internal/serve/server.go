// Package serve exposes phase-diagram queries as MCP tools over SSE/HTTP so
// external agents can ask about stability without shelling out to the CLI.
package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/CifLord/phasehull/internal/phase"
	"github.com/CifLord/phasehull/internal/telemetry"
)

// Version is the phasehull server version, matching the module.
const Version = "0.1.0"

// Server is the in-process MCP query server. It registers hull query tools
// and serves them over SSE/HTTP. The diagram can be swapped atomically while
// serving, which watch mode uses after catalog rebuilds.
type Server struct {
	mcp  *mcp.Server
	port int
	srv  *http.Server
	ln   net.Listener
	em   *telemetry.Emitter

	mu      sync.RWMutex
	diagram *phase.PhaseDiagram
}

// NewServer creates a new MCP query server for the given diagram. The
// emitter may be nil to disable telemetry.
func NewServer(pd *phase.PhaseDiagram, port int, em *telemetry.Emitter) *Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "phasehull",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		port:    port,
		em:      em,
		diagram: pd,
	}

	s.registerQueryTools()

	return s
}

// Diagram returns the currently served diagram.
func (s *Server) Diagram() *phase.PhaseDiagram {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diagram
}

// SetDiagram atomically replaces the served diagram.
func (s *Server) SetDiagram(pd *phase.PhaseDiagram) {
	s.mu.Lock()
	s.diagram = pd
	s.mu.Unlock()
}

// Start begins serving the MCP server over SSE/HTTP on the configured port.
// It returns once the server is ready to accept connections.
func (s *Server) Start(ctx context.Context) error {
	handler := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("serve: listen on port %d: %w", s.port, err)
	}
	s.ln = ln

	s.srv = &http.Server{Handler: handler}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "serve: serve error: %v\n", err)
		}
	}()

	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
