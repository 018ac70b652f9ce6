// Package aggregator implements the Server Facade (§4.K): the single
// upstream MCP server that advertises describe_tools/use_tool and forwards
// prompts, fronting the fleet the Client Manager dials.
package aggregator

import (
	"context"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/junction-mcp/junction/internal/apperrors"
	"github.com/junction-mcp/junction/internal/catalog"
	"github.com/junction-mcp/junction/internal/client"
	"github.com/junction-mcp/junction/internal/config"
	"github.com/junction-mcp/junction/internal/skill"
	"github.com/junction-mcp/junction/pkg/logging"
)

const (
	facadeName    = "junction"
	facadeVersion = "0.1.0"
)

// Server is the aggregating proxy's upstream-facing MCP server.
type Server struct {
	manager *client.Manager
	skills  *skill.Registry
	catalog *catalog.Engine
	watcher *skill.Watcher

	mcp *mcpserver.MCPServer

	promptMu          sync.Mutex
	registeredPrompts map[string]bool
}

// New dials every server in cfg concurrently, builds the skill registry and
// catalog engine, and registers the upstream tools and forwarded prompts
// (§5 "Startup dials every configured server concurrently"). It returns an
// error only when every configured server failed to connect; a partial
// failure is logged and the server starts with whatever connected.
func New(ctx context.Context, cfg *config.ResolvedConfig) (*Server, error) {
	manager := client.NewManager()

	serverNames := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		serverNames = append(serverNames, name)
	}
	sort.Strings(serverNames)

	var failed int32
	var g errgroup.Group
	for _, name := range serverNames {
		name, serverCfg := name, cfg.Servers[name]
		g.Go(func() error {
			if err := manager.ConnectToServer(ctx, name, serverCfg, 0); err != nil {
				logging.Warn("Server", "connecting to %s failed: %v", name, err)
				atomic.AddInt32(&failed, 1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(serverNames) > 0 && int(failed) == len(serverNames) {
		return nil, apperrors.New(apperrors.KindConnectFailed, "every configured server failed to connect")
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}
	registry := skill.NewRegistry(workDir, cfg.Skills.Paths)
	engine := catalog.NewEngine(manager, registry)

	s := &Server{
		manager: manager,
		skills:  registry,
		catalog: engine,
		mcp: mcpserver.NewMCPServer(facadeName, facadeVersion,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithPromptCapabilities(true),
		),
	}

	s.registerMetaTools(ctx)
	s.refreshPrompts(ctx)

	watcher, err := skill.NewWatcher(registry, func() { s.refreshPrompts(ctx) })
	if err != nil {
		logging.Warn("Server", "skill file watcher disabled: %v", err)
	} else {
		s.watcher = watcher
	}

	manager.InstallShutdownHandler()

	return s, nil
}

// Serve blocks, handling upstream MCP protocol traffic over stdio, the only
// transport the CLI driver starts (§6 "CLI driver").
func (s *Server) Serve() error {
	return mcpserver.ServeStdio(s.mcp)
}

// Close stops the skill watcher and disconnects every downstream connection.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return s.manager.DisconnectAll()
}
