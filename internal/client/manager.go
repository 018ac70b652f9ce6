package client

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/junction-mcp/junction/internal/apperrors"
	"github.com/junction-mcp/junction/internal/config"
	"github.com/junction-mcp/junction/pkg/logging"
)

// Connection is one entry the Manager tracks: the live client plus the
// configuration it was dialed from.
type Connection struct {
	Name string
	// SessionID identifies one dial attempt for log correlation — a server
	// that disconnects and reconnects gets a fresh one.
	SessionID string
	Client    MCPClient
	Config    *config.ServerConfig
	connected bool
}

// Instruction returns the configured instruction, falling back to whatever
// the handshake advertised when none was configured (§4.G).
func (c *Connection) Instruction() string {
	if c.Config.Instruction != "" {
		return c.Config.Instruction
	}
	return c.Client.HandshakeInstruction()
}

// Manager owns the fleet of downstream connections (§4.G).
type Manager struct {
	mu          sync.RWMutex
	connections map[string]*Connection

	shutdownOnce sync.Once
}

func NewManager() *Manager {
	return &Manager{connections: make(map[string]*Connection)}
}

// NewManagerWithConnections builds a Manager already holding conns, marking
// each connected. Used to compose a Manager over connections established by
// some other means than ConnectToServer — tests, and any future caller that
// builds an MCPClient directly.
func NewManagerWithConnections(conns map[string]*Connection) *Manager {
	m := NewManager()
	for name, c := range conns {
		c.connected = true
		m.connections[name] = c
	}
	return m
}

// ConnectToServer dials name per cfg, racing the transport handshake against
// timeout (DefaultConnectTimeout if zero). Fails if name is already connected.
func (m *Manager) ConnectToServer(ctx context.Context, name string, cfg *config.ServerConfig, timeout time.Duration) error {
	m.mu.Lock()
	if _, exists := m.connections[name]; exists {
		m.mu.Unlock()
		return apperrors.New(apperrors.KindConnectFailed, "server "+name+" is already connected")
	}
	// Reserve the slot so concurrent connect attempts for the same name serialize.
	m.connections[name] = &Connection{Name: name, Config: cfg}
	m.mu.Unlock()

	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	mcpClient, err := NewFromConfig(cfg)
	if err != nil {
		m.removeConnection(name)
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- mcpClient.Initialize(dialCtx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			m.removeConnection(name)
			return apperrors.Wrap(apperrors.KindConnectFailed, "connecting to "+name, err)
		}
	case <-dialCtx.Done():
		_ = mcpClient.Close()
		m.removeConnection(name)
		return apperrors.Wrap(apperrors.KindConnectTimeout, "connecting to "+name+" timed out", dialCtx.Err())
	}

	sessionID := uuid.NewString()

	m.mu.Lock()
	m.connections[name] = &Connection{Name: name, SessionID: sessionID, Client: mcpClient, Config: cfg, connected: true}
	m.mu.Unlock()

	logging.Info("ClientManager", "connected to %s (session %s)", name, sessionID)
	return nil
}

func (m *Manager) removeConnection(name string) {
	m.mu.Lock()
	delete(m.connections, name)
	m.mu.Unlock()
}

// GetClient returns the connection for name, or an apperrors error of kind
// KindNotConnected if it isn't connected.
func (m *Manager) GetClient(name string) (*Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.connections[name]
	if !ok || !conn.connected {
		return nil, apperrors.New(apperrors.KindNotConnected, "server "+name+" is not connected")
	}
	return conn, nil
}

// GetAllClients returns every connected connection, server-name order not
// guaranteed; callers that need stable order should sort by Name.
func (m *Manager) GetAllClients() []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Connection, 0, len(m.connections))
	for _, c := range m.connections {
		if c.connected {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) IsConnected(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.connections[name]
	return ok && c.connected
}

// DisconnectServer closes and forgets one connection.
func (m *Manager) DisconnectServer(name string) error {
	m.mu.Lock()
	conn, ok := m.connections[name]
	delete(m.connections, name)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if conn.Client != nil {
		return conn.Client.Close()
	}
	return nil
}

// DisconnectAll closes every connection concurrently.
func (m *Manager) DisconnectAll() error {
	m.mu.Lock()
	conns := make([]*Connection, 0, len(m.connections))
	for _, c := range m.connections {
		conns = append(conns, c)
	}
	m.connections = make(map[string]*Connection)
	m.mu.Unlock()

	var g errgroup.Group
	for _, conn := range conns {
		conn := conn
		g.Go(func() error {
			if conn.Client == nil {
				return nil
			}
			return conn.Client.Close()
		})
	}
	return g.Wait()
}

// InstallShutdownHandler registers a SIGINT/SIGTERM handler that closes every
// connection (§4.G "Shutdown discipline"). Each stdio child's termination is
// the responsibility of its mcp-go client.Close(), which the manager gives up
// to DefaultShutdownGrace before moving on, so one hung child cannot block
// the rest of the fleet from being asked to close.
func (m *Manager) InstallShutdownHandler() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		m.shutdownOnce.Do(func() {
			logging.Info("ClientManager", "shutting down downstream connections")
			done := make(chan struct{})
			go func() {
				_ = m.DisconnectAll()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(DefaultShutdownGrace):
				logging.Warn("ClientManager", "shutdown grace period elapsed, exiting anyway")
			}
		})
	}()
}

// DefaultShutdownGrace is how long the shutdown handler waits for graceful
// close before giving up and letting the process exit (§4.G: 1 second after
// the terminate signal before a forced kill).
const DefaultShutdownGrace = time.Second
