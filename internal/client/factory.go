package client

import (
	"github.com/junction-mcp/junction/internal/apperrors"
	"github.com/junction-mcp/junction/internal/config"
)

// NewFromConfig builds the MCPClient appropriate for cfg's transport. The
// returned client is not yet connected; call Initialize to dial it.
func NewFromConfig(cfg *config.ServerConfig) (MCPClient, error) {
	switch cfg.Transport {
	case config.TransportStdio:
		if cfg.Command == "" {
			return nil, apperrors.New(apperrors.KindConfigInvalid, "command is required for stdio transport")
		}
		return NewStdioClient(cfg.Command, cfg.Args, cfg.Env), nil

	case config.TransportHTTP:
		if cfg.URL == "" {
			return nil, apperrors.New(apperrors.KindConfigInvalid, "url is required for http transport")
		}
		return NewStreamableHTTPClient(cfg.URL, cfg.Headers), nil

	case config.TransportSSE:
		if cfg.URL == "" {
			return nil, apperrors.New(apperrors.KindConfigInvalid, "url is required for sse transport")
		}
		return NewSSEClient(cfg.URL, cfg.Headers), nil

	default:
		return nil, apperrors.New(apperrors.KindConfigInvalid, "unsupported transport: "+string(cfg.Transport))
	}
}
