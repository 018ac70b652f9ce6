// Package client dials and supervises downstream MCP server connections.
//
// Every transport — stdio, streamable HTTP, SSE — implements the same
// MCPClient interface, so the Manager and everything built on top of it never
// branches on transport kind. The Manager additionally serializes connection
// attempts per server name, races each dial against a timeout, and installs a
// SIGINT/SIGTERM handler that closes the fleet concurrently before exit.
package client
