// Package palette models the colors a shared canvas accepts and the per-image
// color priorities a painter works through.
//
// # Color Indices
//
// Canvas colors are referred to by palette index. Index 0 is reserved for
// "transparent/unset": an unpainted canvas cell reads as 0 and a target pixel
// with alpha below 128 quantizes to 0. Indices 1..Len()-1 are opaque colors.
//
// # Real and Substitution Colors
//
// A source raster is quantized against the full palette; the resulting index
// is the pixel's real color. The painter may not own every palette entry, so
// each real color also has a substitution color: the real color itself when it
// is available, otherwise the perceptually nearest available entry (CIEDE2000
// distance via go-colorful).
//
// # Color Order
//
// Order is the user-adjustable priority list for one image. It always covers
// exactly the real colors present in the image's bitmap; when the bitmap
// changes and the color sets no longer match, Sync rebuilds the list in
// descending pixel-count order with every color enabled.
package palette
