// Package logging provides the process-wide structured logging sink used by every
// other package instead of fmt.Println or the standard log package.
//
// # Architecture
//
// Logging is slog-backed and subsystem-tagged: every call names the component that
// produced it (e.g. "ClientManager", "Skill") so log lines can be filtered
// by origin. There is a single mode — CLI — because the aggregating proxy has no
// terminal UI: stdout is reserved exclusively for stdio-transport MCP framing, so
// InitForCLI always points the handler at an explicit writer (stderr in practice).
//
// # Log Levels
//   - Debug: internal detail, disabled by default
//   - Info: steady-state operational events (server connected, skill loaded)
//   - Warn: recoverable problems (a remote config fetch failed, a prompt is malformed)
//   - Error: failures that affect the caller's request
package logging
