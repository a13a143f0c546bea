// Package server implements the MCP (Model Context Protocol) server for the
// canvas painting engine.
//
// This package provides a JSON-RPC 2.0 server that exposes the fleet of
// target images, their task queues and their editing operations through the
// MCP protocol, so an MCP client can plan and track pixel painting on a
// shared canvas.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Fleet:
//   - fleet_add_image: Import from a raster file or an exported snapshot
//   - fleet_list: Images in fleet order
//   - fleet_remove: Remove an image and discard its queue
//   - fleet_swap: Reorder the fleet
//   - fleet_progress: Overall and per-image progress
//   - fleet_plan: Next tasks across images (ALL, PERCENTAGE, SEQUENTIAL)
//
// Canvas State:
//   - canvas_load_tiles: Load tile PNGs as the canvas snapshot
//   - canvas_mark_painted: Record painted pixels
//
// Task Queue:
//   - image_recompute: Rebuild one queue
//   - image_tasks: Page through a queue
//   - image_progress: Progress of one image
//
// Color Order:
//   - image_colors: Colors by priority with substitutions
//   - image_color_reorder: Move a color
//   - image_color_toggle: Enable or disable a color
//
// Settings and Geometry:
//   - image_settings: Strategy, opacity, flags, brightness, size, lock
//   - image_reset_size: Natural raster size
//   - image_drag_start, image_drag_move, image_drag_end: Move and resize
//
// Output:
//   - image_export: Snapshot for later import
//   - image_preview: Base64 PNG with pending pixels outlined
//
// # Canvas State
//
// Task queues are diffed against an in-memory canvas snapshot: the tiles
// loaded by the last canvas_load_tiles call, overlaid with every pixel
// reported through canvas_mark_painted since. Every tool that changes the
// snapshot or an image recomputes the affected queues before returning.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32001 (import without a
//     source) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Failures are logged to stderr, except imports without a source, which are
// an expected outcome.
//
// # Usage
//
//	fleet := painter.NewFleet(sink, cfg.RatePerHour)
//	srv := server.New(cfg, pal, fleet)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
