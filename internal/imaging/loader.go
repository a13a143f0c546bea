package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache provides thread-safe caching of decoded rasters to avoid
// redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once
// a raster is loaded, subsequent Load() calls for the same path return the
// cached copy without disk I/O. Canvas tiles and import sources share one
// cache, so a tile directory that is refreshed must be evicted first.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/target.png")
//	if err != nil {
//	    return err
//	}
//	cache.Evict("/path/to/target.png") // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves a raster from the cache or decodes it from disk if not cached.
//
// The raster is cached using the exact path string provided. Different paths
// to the same file (e.g., relative vs absolute) result in separate entries.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable raster
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes a specific raster from the cache by its path.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// EvictPrefix removes every cached raster whose path lies under dir.
func (c *ImageCache) EvictPrefix(dir string) {
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	c.mu.Lock()
	for path := range c.images {
		if strings.HasPrefix(filepath.Clean(path), prefix) {
			delete(c.images, path)
		}
	}
	c.mu.Unlock()
}

// Decode reads a raster in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// SourceInfo contains metadata about an imported raster file.
type SourceInfo struct {
	// Width is the natural raster width in pixels.
	Width int `json:"width"`

	// Height is the natural raster height in pixels.
	Height int `json:"height"`

	// Format is the detected format from the file extension: "png", "jpeg",
	// "gif", "bmp", "tiff", "webp", or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadSourceInfo loads a raster through the cache and describes it.
func LoadSourceInfo(cache *ImageCache, path string) (*SourceInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := img.Bounds()
	return &SourceInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        formatOf(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}
