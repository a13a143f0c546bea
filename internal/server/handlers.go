package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/ironsheep/canvas-painter-mcp/internal/canvas"
	"github.com/ironsheep/canvas-painter-mcp/internal/imaging"
	"github.com/ironsheep/canvas-painter-mcp/internal/painter"
	"github.com/ironsheep/canvas-painter-mcp/internal/strategy"
)

// JSON-RPC error codes.
const (
	codeMethodNotFound  = -32601
	codeInvalidParams   = -32602
	codeToolFailed      = -32000
	codeNoImageSelected = -32001
)

// Defaults for optional tool arguments.
const (
	defaultTaskPage  = 100
	defaultPlanCount = 20
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "fleet_add_image", "image_tasks").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// An import without a source returns -32001 and is not logged.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, painter.ErrNoImageSelected) {
			return s.errorResponse(req.ID, codeNoImageSelected, "No image selected", err.Error())
		}
		log.Printf("Tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Looks up the target image in the fleet
//  4. Mutates it through the fleet so the change is persisted
//  5. Recomputes affected task queues against the canvas snapshot
//
// A panicking handler is reported as a tool failure.
func (s *Server) executeTool(name string, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("tool %s panicked: %v", name, r)
		}
	}()

	switch name {
	// Fleet
	case "fleet_add_image":
		return s.handleFleetAddImage(args)
	case "fleet_list":
		return s.handleFleetList(args)
	case "fleet_remove":
		return s.handleFleetRemove(args)
	case "fleet_swap":
		return s.handleFleetSwap(args)
	case "fleet_progress":
		return s.handleFleetProgress(args)
	case "fleet_plan":
		return s.handleFleetPlan(args)

	// Canvas State
	case "canvas_load_tiles":
		return s.handleCanvasLoadTiles(args)
	case "canvas_mark_painted":
		return s.handleCanvasMarkPainted(args)

	// Task Queue
	case "image_recompute":
		return s.handleImageRecompute(args)
	case "image_tasks":
		return s.handleImageTasks(args)
	case "image_progress":
		return s.handleImageProgress(args)

	// Color Order
	case "image_colors":
		return s.handleImageColors(args)
	case "image_color_reorder":
		return s.handleImageColorReorder(args)
	case "image_color_toggle":
		return s.handleImageColorToggle(args)

	// Settings and Geometry
	case "image_settings":
		return s.handleImageSettings(args)
	case "image_reset_size":
		return s.handleImageResetSize(args)
	case "image_drag_start":
		return s.handleImageDragStart(args)
	case "image_drag_move":
		return s.handleImageDragMove(args)
	case "image_drag_end":
		return s.handleImageDragEnd(args)

	// Output
	case "image_export":
		return s.handleImageExport(args)
	case "image_preview":
		return s.handleImagePreview(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

func (s *Server) debugf(format string, args ...interface{}) {
	if s.cfg.Debug() {
		log.Printf(format, args...)
	}
}

// imageSummary is the listing view of one image.
type imageSummary struct {
	ID                    string            `json:"id"`
	Position              canvas.Point      `json:"position"`
	Width                 int               `json:"width"`
	Height                int               `json:"height"`
	Strategy              strategy.Strategy `json:"strategy"`
	Opacity               int               `json:"opacity"`
	DrawTransparentPixels bool              `json:"draw_transparent_pixels"`
	DrawColorsInOrder     bool              `json:"draw_colors_in_order"`
	Brightness            float64           `json:"brightness"`
	ExactColor            bool              `json:"exact_color"`
	Lock                  bool              `json:"lock"`
	Colors                int               `json:"colors"`
	PendingTasks          int               `json:"pending_tasks"`
	Progress              painter.Progress  `json:"progress"`

	// Source describes the imported file; set by fleet_add_image only.
	Source *imaging.SourceInfo `json:"source,omitempty"`
}

func (s *Server) summarize(img *painter.Image) imageSummary {
	return imageSummary{
		ID:                    img.ID,
		Position:              img.Anchor,
		Width:                 img.Bitmap().Width(),
		Height:                img.Bitmap().Height(),
		Strategy:              img.Strategy,
		Opacity:               img.Opacity,
		DrawTransparentPixels: img.DrawTransparentPixels,
		DrawColorsInOrder:     img.DrawColorsInOrder,
		Brightness:            img.Source().Brightness,
		ExactColor:            img.Source().ExactColor,
		Lock:                  img.Lock,
		Colors:                img.Colors.Len(),
		PendingTasks:          img.Pending(),
		Progress:              img.Progress(s.fleet.Rate()),
	}
}

type imageIDArgs struct {
	ID string `json:"id"`
}

func (s *Server) imageFromArgs(args json.RawMessage) (*painter.Image, error) {
	var a imageIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.fleet.Get(a.ID)
}

// === Fleet Handlers ===

type fleetAddImageArgs struct {
	Path                  string          `json:"path"`
	Snapshot              json.RawMessage `json:"snapshot"`
	X                     int             `json:"x"`
	Y                     int             `json:"y"`
	Strategy              string          `json:"strategy"`
	Opacity               *int            `json:"opacity"`
	Width                 int             `json:"width"`
	Height                int             `json:"height"`
	Brightness            float64         `json:"brightness"`
	ExactColor            bool            `json:"exact_color"`
	DrawTransparentPixels bool            `json:"draw_transparent_pixels"`
	DrawColorsInOrder     bool            `json:"draw_colors_in_order"`
}

func (s *Server) handleFleetAddImage(args json.RawMessage) (interface{}, error) {
	var a fleetAddImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	var img *painter.Image
	var info *imaging.SourceInfo
	var err error
	switch {
	case len(a.Snapshot) > 0 && string(a.Snapshot) != "null":
		img, err = s.importSnapshot(a.Snapshot)
	case a.Path != "":
		img, info, err = s.importRaster(&a)
	default:
		return nil, painter.ErrNoImageSelected
	}
	if err != nil {
		return nil, err
	}

	if err := s.fleet.Add(img); err != nil {
		return nil, err
	}
	img.Recompute(s.state)
	s.debugf("Added image %s at %v (%dx%d, %d tasks)", img.ID, img.Anchor, img.Bitmap().Width(), img.Bitmap().Height(), img.Pending())
	sum := s.summarize(img)
	sum.Source = info
	return sum, nil
}

// importSnapshot accepts an exported snapshot either as a JSON object or as
// a string holding one. The import always gets a fresh ID.
func (s *Server) importSnapshot(raw json.RawMessage) (*painter.Image, error) {
	data := []byte(raw)
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		data = []byte(text)
	}
	snap, err := painter.ParseSnapshot(data)
	if err != nil {
		return nil, err
	}
	snap.ID = ""
	return painter.FromSnapshot(snap, s.pal)
}

// importRaster builds an image from a raster file. The image keeps its own
// copy of the raster, so the file is dropped from the cache afterwards.
func (s *Server) importRaster(a *fleetAddImageArgs) (*painter.Image, *imaging.SourceInfo, error) {
	defer s.cache.Evict(a.Path)
	info, err := imaging.LoadSourceInfo(s.cache, a.Path)
	if err != nil {
		return nil, nil, err
	}
	raster, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	img, err := painter.NewImage(imaging.NewSource(raster), s.pal, canvas.Point{X: a.X, Y: a.Y})
	if err != nil {
		return nil, nil, err
	}

	img.Strategy = s.cfg.Strategy()
	img.SetOpacity(s.cfg.DefaultOpacity)
	if a.Strategy != "" {
		st, err := strategy.Parse(a.Strategy)
		if err != nil {
			return nil, nil, err
		}
		img.Strategy = st
	}
	if a.Opacity != nil {
		img.SetOpacity(*a.Opacity)
	}
	img.DrawTransparentPixels = a.DrawTransparentPixels
	img.DrawColorsInOrder = a.DrawColorsInOrder
	if a.ExactColor {
		img.SetExactColor(true)
	}
	if a.Brightness != 0 {
		img.SetBrightness(a.Brightness)
	}
	if a.Width > 0 || a.Height > 0 {
		w, h := img.Bitmap().Width(), img.Bitmap().Height()
		if a.Width > 0 {
			w = a.Width
		}
		if a.Height > 0 {
			h = a.Height
		}
		if err := img.SetSize(w, h); err != nil {
			return nil, nil, err
		}
	}
	return img, info, nil
}

func (s *Server) handleFleetList(args json.RawMessage) (interface{}, error) {
	images := s.fleet.Images()
	out := make([]imageSummary, len(images))
	for i, img := range images {
		out[i] = s.summarize(img)
	}
	return map[string]interface{}{
		"count":  len(out),
		"images": out,
	}, nil
}

func (s *Server) handleFleetRemove(args json.RawMessage) (interface{}, error) {
	var a imageIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.fleet.Remove(a.ID); err != nil {
		return nil, err
	}
	s.debugf("Removed image %s", a.ID)
	return map[string]interface{}{
		"removed": a.ID,
		"count":   s.fleet.Len(),
	}, nil
}

type fleetSwapArgs struct {
	I int `json:"i"`
	J int `json:"j"`
}

func (s *Server) handleFleetSwap(args json.RawMessage) (interface{}, error) {
	var a fleetSwapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.fleet.Swap(a.I, a.J); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"order": s.fleet.IDs(),
	}, nil
}

type imageProgress struct {
	ID       string           `json:"id"`
	Progress painter.Progress `json:"progress"`
}

func (s *Server) handleFleetProgress(args json.RawMessage) (interface{}, error) {
	images := s.fleet.Images()
	per := make([]imageProgress, len(images))
	for i, img := range images {
		per[i] = imageProgress{ID: img.ID, Progress: img.Progress(s.fleet.Rate())}
	}
	return map[string]interface{}{
		"fleet":         s.fleet.Progress(),
		"images":        per,
		"rate_per_hour": s.fleet.Rate(),
	}, nil
}

type fleetPlanArgs struct {
	Strategy string `json:"strategy"`
	Count    int    `json:"count"`
}

func (s *Server) handleFleetPlan(args json.RawMessage) (interface{}, error) {
	var a fleetPlanArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Strategy == "" {
		a.Strategy = string(painter.PlanAll)
	}
	if a.Count == 0 {
		a.Count = defaultPlanCount
	}
	ps, err := painter.ParsePlanStrategy(a.Strategy)
	if err != nil {
		return nil, err
	}
	tasks, err := s.fleet.Plan(ps, a.Count)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []painter.PlannedTask{}
	}
	return map[string]interface{}{
		"strategy": ps,
		"count":    len(tasks),
		"tasks":    tasks,
	}, nil
}

// === Canvas State Handlers ===

type canvasLoadTilesArgs struct {
	Dir    string `json:"dir"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleCanvasLoadTiles(args json.RawMessage) (interface{}, error) {
	var a canvasLoadTilesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Dir == "" {
		a.Dir = s.cfg.TilesDir
	}
	if a.Dir == "" {
		return nil, fmt.Errorf("no tiles directory given or configured")
	}

	var area image.Rectangle
	if a.Width > 0 && a.Height > 0 {
		if a.X > math.MaxInt-a.Width || a.Y > math.MaxInt-a.Height {
			return nil, fmt.Errorf("area at (%d,%d) of %dx%d exceeds the coordinate range", a.X, a.Y, a.Width, a.Height)
		}
		area = image.Rect(a.X, a.Y, a.X+a.Width, a.Y+a.Height)
	} else {
		area = s.fleetArea()
	}

	// tiles change between loads
	s.cache.EvictPrefix(a.Dir)
	snap, err := canvas.LoadTiles(s.cache, s.pal, a.Dir, s.cfg.TileSize, area)
	if err != nil {
		return nil, err
	}
	s.state = canvas.NewLayered(snap)
	s.fleet.RecomputeAll(s.state)

	return map[string]interface{}{
		"tiles_loaded": snap.Tiles(),
		"area": map[string]int{
			"x":      area.Min.X,
			"y":      area.Min.Y,
			"width":  area.Dx(),
			"height": area.Dy(),
		},
		"progress": s.fleet.Progress(),
	}, nil
}

// fleetArea returns the union of all image rectangles.
func (s *Server) fleetArea() image.Rectangle {
	var area image.Rectangle
	for _, img := range s.fleet.Images() {
		b := img.Bounds()
		area = area.Union(image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height))
	}
	return area
}

type paintedPixel struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Color int `json:"color"`
}

type canvasMarkPaintedArgs struct {
	Pixels []paintedPixel `json:"pixels"`
}

func (s *Server) handleCanvasMarkPainted(args json.RawMessage) (interface{}, error) {
	var a canvasMarkPaintedArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	for _, p := range a.Pixels {
		if p.Color < 0 || p.Color >= s.pal.Len() {
			return nil, fmt.Errorf("color %d at (%d,%d) outside palette 0..%d", p.Color, p.X, p.Y, s.pal.Len()-1)
		}
	}
	for _, p := range a.Pixels {
		s.state.Set(canvas.Point{X: p.X, Y: p.Y}, p.Color)
	}
	s.fleet.RecomputeAll(s.state)

	return map[string]interface{}{
		"marked":   len(a.Pixels),
		"progress": s.fleet.Progress(),
	}, nil
}

// === Task Queue Handlers ===

func (s *Server) handleImageRecompute(args json.RawMessage) (interface{}, error) {
	img, err := s.imageFromArgs(args)
	if err != nil {
		return nil, err
	}
	img.Recompute(s.state)
	return s.summarize(img), nil
}

type imageTasksArgs struct {
	ID     string `json:"id"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

func (s *Server) handleImageTasks(args json.RawMessage) (interface{}, error) {
	var a imageTasksArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Limit <= 0 {
		a.Limit = defaultTaskPage
	}
	if a.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative, got %d", a.Offset)
	}
	img, err := s.fleet.Get(a.ID)
	if err != nil {
		return nil, err
	}

	tasks := img.Tasks()
	start := min(a.Offset, len(tasks))
	end := start + min(a.Limit, len(tasks)-start)
	return map[string]interface{}{
		"id":     img.ID,
		"total":  len(tasks),
		"offset": start,
		"tasks":  tasks[start:end],
	}, nil
}

func (s *Server) handleImageProgress(args json.RawMessage) (interface{}, error) {
	img, err := s.imageFromArgs(args)
	if err != nil {
		return nil, err
	}
	return imageProgress{ID: img.ID, Progress: img.Progress(s.fleet.Rate())}, nil
}

// === Color Order Handlers ===

func (s *Server) handleImageColors(args json.RawMessage) (interface{}, error) {
	img, err := s.imageFromArgs(args)
	if err != nil {
		return nil, err
	}
	return s.colorList(img), nil
}

func (s *Server) colorList(img *painter.Image) map[string]interface{} {
	return map[string]interface{}{
		"id":                   img.ID,
		"draw_colors_in_order": img.DrawColorsInOrder,
		"colors":               imaging.DescribeColors(s.pal, img.Colors, img.Stats(), img.Bitmap().Area()),
	}
}

type imageColorReorderArgs struct {
	ID   string `json:"id"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

func (s *Server) handleImageColorReorder(args json.RawMessage) (interface{}, error) {
	var a imageColorReorderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err := s.fleet.Mutate(a.ID, func(img *painter.Image) error {
		n := img.Colors.Len()
		if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n {
			return fmt.Errorf("color positions %d -> %d out of range [0,%d)", a.From, a.To, n)
		}
		img.Colors.Reorder(a.From, a.To)
		img.Recompute(s.state)
		result = s.colorList(img)
		return nil
	})
	return result, err
}

type imageColorToggleArgs struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

func (s *Server) handleImageColorToggle(args json.RawMessage) (interface{}, error) {
	var a imageColorToggleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err := s.fleet.Mutate(a.ID, func(img *painter.Image) error {
		if a.Position < 0 || a.Position >= img.Colors.Len() {
			return fmt.Errorf("color position %d out of range [0,%d)", a.Position, img.Colors.Len())
		}
		img.Colors.Toggle(a.Position)
		img.Recompute(s.state)
		result = s.colorList(img)
		return nil
	})
	return result, err
}

// === Settings and Geometry Handlers ===

type imageSettingsArgs struct {
	ID                    string   `json:"id"`
	Strategy              *string  `json:"strategy"`
	Opacity               *int     `json:"opacity"`
	DrawTransparentPixels *bool    `json:"draw_transparent_pixels"`
	DrawColorsInOrder     *bool    `json:"draw_colors_in_order"`
	Brightness            *float64 `json:"brightness"`
	ExactColor            *bool    `json:"exact_color"`
	Lock                  *bool    `json:"lock"`
	Width                 *int     `json:"width"`
	Height                *int     `json:"height"`
}

func (s *Server) handleImageSettings(args json.RawMessage) (interface{}, error) {
	var a imageSettingsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var result imageSummary
	err := s.fleet.Mutate(a.ID, func(img *painter.Image) error {
		// validate everything against the image as it was before the call
		st := img.Strategy
		if a.Strategy != nil {
			var err error
			if st, err = strategy.Parse(*a.Strategy); err != nil {
				return err
			}
		}
		resize := a.Width != nil || a.Height != nil
		w, h := img.Bitmap().Width(), img.Bitmap().Height()
		if resize {
			if img.Lock {
				return painter.ErrLocked
			}
			if a.Width != nil {
				w = *a.Width
			}
			if a.Height != nil {
				h = *a.Height
			}
			if err := painter.ValidateSize(w, h); err != nil {
				return err
			}
		}

		img.Strategy = st
		if resize {
			if err := img.SetSize(w, h); err != nil {
				return err
			}
		}
		if a.Lock != nil {
			img.Lock = *a.Lock
		}
		if a.Opacity != nil {
			img.SetOpacity(*a.Opacity)
		}
		if a.DrawTransparentPixels != nil {
			img.DrawTransparentPixels = *a.DrawTransparentPixels
		}
		if a.DrawColorsInOrder != nil {
			img.DrawColorsInOrder = *a.DrawColorsInOrder
		}
		if a.ExactColor != nil {
			img.SetExactColor(*a.ExactColor)
		}
		if a.Brightness != nil {
			img.SetBrightness(*a.Brightness)
		}
		img.Recompute(s.state)
		result = s.summarize(img)
		return nil
	})
	return result, err
}

func (s *Server) handleImageResetSize(args json.RawMessage) (interface{}, error) {
	var a imageIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var result imageSummary
	err := s.fleet.Mutate(a.ID, func(img *painter.Image) error {
		if img.Lock {
			return painter.ErrLocked
		}
		img.ResetSize()
		img.Recompute(s.state)
		result = s.summarize(img)
		return nil
	})
	return result, err
}

type imageDragStartArgs struct {
	ID        string  `json:"id"`
	Handle    string  `json:"handle"`
	PointerX  float64 `json:"pointer_x"`
	PointerY  float64 `json:"pointer_y"`
	PixelSize float64 `json:"pixel_size"`
}

func (s *Server) handleImageDragStart(args json.RawMessage) (interface{}, error) {
	var a imageDragStartArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	h, err := painter.ParseHandle(a.Handle)
	if err != nil {
		return nil, err
	}
	img, err := s.fleet.Get(a.ID)
	if err != nil {
		return nil, err
	}
	if err := img.Editor().BeginResize(h, a.PointerX, a.PointerY, a.PixelSize); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":     img.ID,
		"handle": h.String(),
		"box":    img.Bounds(),
	}, nil
}

type imageDragMoveArgs struct {
	ID       string  `json:"id"`
	PointerX float64 `json:"pointer_x"`
	PointerY float64 `json:"pointer_y"`
}

func (s *Server) handleImageDragMove(args json.RawMessage) (interface{}, error) {
	var a imageDragMoveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.fleet.Get(a.ID)
	if err != nil {
		return nil, err
	}
	box, err := img.Editor().Move(a.PointerX, a.PointerY)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":     img.ID,
		"handle": img.Editor().Handle().String(),
		"box":    box,
	}, nil
}

func (s *Server) handleImageDragEnd(args json.RawMessage) (interface{}, error) {
	var a imageIDArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var result imageSummary
	err := s.fleet.Mutate(a.ID, func(img *painter.Image) error {
		if _, err := img.Editor().End(); err != nil {
			return err
		}
		img.Recompute(s.state)
		result = s.summarize(img)
		return nil
	})
	return result, err
}

// === Output Handlers ===

func (s *Server) handleImageExport(args json.RawMessage) (interface{}, error) {
	img, err := s.imageFromArgs(args)
	if err != nil {
		return nil, err
	}
	return img.Snapshot()
}

type imagePreviewArgs struct {
	ID          string `json:"id"`
	Scale       int    `json:"scale"`
	ShowPending *bool  `json:"show_pending"`
	Highlight   string `json:"highlight"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.fleet.Get(a.ID)
	if err != nil {
		return nil, err
	}

	opts := imaging.PreviewOptions{
		Scale:     a.Scale,
		Opacity:   img.Opacity,
		Highlight: a.Highlight,
	}
	if a.ShowPending == nil || *a.ShowPending {
		for _, t := range img.Tasks() {
			opts.Pending = append(opts.Pending, image.Pt(t.Position.X-img.Anchor.X, t.Position.Y-img.Anchor.Y))
		}
	}
	return imaging.RenderPreview(img.Bitmap(), s.pal, opts)
}
