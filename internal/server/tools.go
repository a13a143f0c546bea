package server

import (
	"github.com/ironsheep/canvas-painter-mcp/internal/imaging"
	"github.com/ironsheep/canvas-painter-mcp/internal/painter"
	"github.com/ironsheep/canvas-painter-mcp/internal/strategy"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var imageIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Image ID as returned by fleet_add_image or fleet_list",
}

func strategyNames() []string {
	all := strategy.All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Fleet
		{
			Name:        "fleet_add_image",
			Description: "Import a target image into the fleet, either from a raster file or from a snapshot produced by image_export. The image is quantized to the canvas palette, placed at (x, y) and its task queue is computed against the current canvas state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a PNG, JPEG, GIF, BMP, TIFF or WebP file",
					},
					"snapshot": map[string]interface{}{
						"type":        []string{"object", "string"},
						"description": "Snapshot from image_export, as an object or JSON text. Takes precedence over path",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "World X coordinate of the top-left pixel",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "World Y coordinate of the top-left pixel",
					},
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        strategyNames(),
						"description": "Traversal order of the pixels. Default from configuration (SPIRAL_FROM_CENTER)",
					},
					"opacity": map[string]interface{}{
						"type":        "integer",
						"description": "Preview opacity 0-100. Default from configuration (50)",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Optional placement width in canvas pixels; the raster is resampled",
						"maximum":     painter.MaxSide,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Optional placement height in canvas pixels; the raster is resampled",
					},
					"brightness": map[string]interface{}{
						"type":        "number",
						"description": "Brightness adjustment -100 to 100 applied before quantization",
					},
					"exact_color": map[string]interface{}{
						"type":        "boolean",
						"description": "Only keep pixels that exactly match a palette color; others become transparent",
					},
					"draw_transparent_pixels": map[string]interface{}{
						"type":        "boolean",
						"description": "Emit erase tasks for transparent pixels",
					},
					"draw_colors_in_order": map[string]interface{}{
						"type":        "boolean",
						"description": "Sort tasks by the image's color order",
					},
				},
			},
		},
		{
			Name:        "fleet_list",
			Description: "List all images in fleet order with their geometry, settings and progress.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "fleet_remove",
			Description: "Remove an image from the fleet. Its task queue is discarded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "fleet_swap",
			Description: "Swap two images in the fleet order. Order affects listing and SEQUENTIAL planning only.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"i": map[string]interface{}{
						"type":        "integer",
						"description": "First fleet position (0-based)",
					},
					"j": map[string]interface{}{
						"type":        "integer",
						"description": "Second fleet position (0-based)",
					},
				},
				"required": []string{"i", "j"},
			},
		},
		{
			Name:        "fleet_progress",
			Description: "Get overall and per-image progress: done/total pixels, percent and ETA in hours.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "fleet_plan",
			Description: "Pick the next pixels to paint across all images without consuming them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"ALL", "PERCENTAGE", "SEQUENTIAL"},
						"description": "ALL round-robins images, PERCENTAGE serves the least complete image, SEQUENTIAL finishes images in fleet order. Default ALL",
						"default":     "ALL",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of tasks to plan. Default 20",
						"default":     defaultPlanCount,
					},
				},
			},
		},

		// Canvas State
		{
			Name:        "canvas_load_tiles",
			Description: "Load canvas tiles (<dir>/<tileX>/<tileY>.png) covering an area and recompute every task queue against them. Without an area, the union of all images is loaded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Tile directory. Default from configuration",
					},
					"x":      map[string]interface{}{"type": "integer"},
					"y":      map[string]interface{}{"type": "integer"},
					"width":  map[string]interface{}{"type": "integer"},
					"height": map[string]interface{}{"type": "integer"},
				},
			},
		},
		{
			Name:        "canvas_mark_painted",
			Description: "Record pixels as painted on the canvas and recompute every task queue.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"pixels": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"color": map[string]interface{}{"type": "integer", "description": "Palette index, 0 = erased"},
							},
							"required": []string{"x", "y", "color"},
						},
					},
				},
				"required": []string{"pixels"},
			},
		},

		// Task Queue
		{
			Name:        "image_recompute",
			Description: "Rebuild an image's task queue against the current canvas state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "image_tasks",
			Description: "Page through an image's task queue in drawing order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
					"offset": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the first task. Default 0",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum tasks to return. Default 100",
						"default":     defaultTaskPage,
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "image_progress",
			Description: "Get one image's progress: done/total pixels, percent and ETA in hours.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
				},
				"required": []string{"id"},
			},
		},

		// Color Order
		{
			Name:        "image_colors",
			Description: "List an image's colors in priority order with pixel counts, palette substitutions and enabled state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "image_color_reorder",
			Description: "Move a color from one priority position to another.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":   imageIDProperty,
					"from": map[string]interface{}{"type": "integer", "description": "Current position (0-based)"},
					"to":   map[string]interface{}{"type": "integer", "description": "New position (0-based)"},
				},
				"required": []string{"id", "from", "to"},
			},
		},
		{
			Name:        "image_color_toggle",
			Description: "Enable or disable a color. Disabled colors produce no tasks.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":       imageIDProperty,
					"position": map[string]interface{}{"type": "integer", "description": "Position in the color list (0-based)"},
				},
				"required": []string{"id", "position"},
			},
		},

		// Settings and Geometry
		{
			Name:        "image_settings",
			Description: "Change image settings. Only the given fields change. Size changes resample the bitmap and are refused for locked images.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
					"strategy": map[string]interface{}{
						"type": "string",
						"enum": strategyNames(),
					},
					"opacity":                 map[string]interface{}{"type": "integer", "description": "0-100"},
					"draw_transparent_pixels": map[string]interface{}{"type": "boolean"},
					"draw_colors_in_order":    map[string]interface{}{"type": "boolean"},
					"brightness":              map[string]interface{}{"type": "number", "description": "-100 to 100"},
					"exact_color":             map[string]interface{}{"type": "boolean"},
					"lock":                    map[string]interface{}{"type": "boolean", "description": "Prevent moving and resizing"},
					"width":                   map[string]interface{}{"type": "integer"},
					"height":                  map[string]interface{}{"type": "integer"},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "image_reset_size",
			Description: "Restore an image's natural raster size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "image_drag_start",
			Description: "Start moving or resizing an image. Pointer coordinates are in screen units; pixel_size converts them to canvas pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
					"handle": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"move", "n", "s", "e", "w", "ne", "nw", "se", "sw"},
						"description": "Edge or corner to drag. Default move",
					},
					"pointer_x":  map[string]interface{}{"type": "number"},
					"pointer_y":  map[string]interface{}{"type": "number"},
					"pixel_size": map[string]interface{}{"type": "number", "description": "Screen units per canvas pixel. Default 1"},
				},
				"required": []string{"id", "pointer_x", "pointer_y"},
			},
		},
		{
			Name:        "image_drag_move",
			Description: "Update an active drag and return the preview box. The image is not changed until image_drag_end.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":        imageIDProperty,
					"pointer_x": map[string]interface{}{"type": "number"},
					"pointer_y": map[string]interface{}{"type": "number"},
				},
				"required": []string{"id", "pointer_x", "pointer_y"},
			},
		},
		{
			Name:        "image_drag_end",
			Description: "Commit an active drag: move the image, resample it if resized, and recompute its tasks.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
				},
				"required": []string{"id"},
			},
		},

		// Output
		{
			Name:        "image_export",
			Description: "Export an image as a snapshot that fleet_add_image can import.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "image_preview",
			Description: "Render the quantized image as base64 PNG at the image's opacity, with pending pixels outlined.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": imageIDProperty,
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Output pixels per canvas pixel. Default 4",
						"default":     4,
						"minimum":     1,
						"maximum":     imaging.MaxPreviewScale,
					},
					"show_pending": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline pixels that still need painting. Default true",
						"default":     true,
					},
					"highlight": map[string]interface{}{
						"type":        "string",
						"description": "Outline color in hex (#RRGGBB or #RRGGBBAA). Default magenta",
					},
				},
				"required": []string{"id"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
