// Package mcp serves read-only queries over an analysis snapshot through
// the Model Context Protocol on stdio.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/project-atlas/internal/analyzer"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "atlas-mcp"
	ServerVersion = "1.0.0"
)

// Server manages the MCP server lifecycle.
type Server struct {
	state *state
	mcp   *server.MCPServer
}

// NewServer creates an MCP server answering from snap.
func NewServer(ctx context.Context, snap *analyzer.Snapshot, labels Labeler) (*Server, error) {
	st, err := newState(ctx, snap, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)
	registerTools(mcpServer, st)

	return &Server{state: st, mcp: mcpServer}, nil
}

// Update replaces the snapshot the tools answer from.
func (s *Server) Update(ctx context.Context, snap *analyzer.Snapshot) error {
	return s.state.update(ctx, snap)
}

// Serve runs the server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *Server) Close() error {
	return s.state.close()
}
