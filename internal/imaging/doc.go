// Package imaging turns source rasters into palette-indexed bitmaps for the
// painter and renders bitmaps back into previews.
//
// This package is the BitmapSource of the system: it loads and caches
// rasters, resamples them to the placement size chosen by the user, applies
// a brightness adjustment and quantizes every pixel to a palette index while
// collecting per-color statistics. All operations work with standard Go
// image.Image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Pipeline
//
// Source.Quantize regenerates a bitmap in three steps:
//
//  1. Resample the natural raster to Width x Height with nearest-neighbor
//     filtering (disintegration/imaging), keeping hard pixel edges
//  2. Adjust brightness by Brightness percent (anthonynsimon/bild)
//  3. Map each pixel to a palette index (alpha < 128 becomes transparent)
//
// The bitmap is never patched in place; any size or brightness change
// produces a new Bitmap and new Stats.
//
// # Supported Formats
//
// PNG, JPEG and GIF from the standard library, plus BMP, TIFF and WebP from
// golang.org/x/image.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Source and Bitmap values
// are not synchronized; a Source must not be mutated while it is quantized.
//
// # Error Handling
//
// Functions return errors for unreadable files, undecodable rasters and
// encoding failures. A zero-area placement is not an error: it produces an
// empty Bitmap.
package imaging
