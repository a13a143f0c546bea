// Package strategy enumerates the cells of a bitmap in a named traversal order.
//
// A Strategy decides in what order the painter considers candidate pixels of
// a target image. Every strategy visits each of the width*height cells exactly
// once. Offsets are bitmap-local: (0,0) is the top-left cell, X increases
// rightward and Y increases downward.
//
// # Strategies
//
//   - DOWN: rows top to bottom, each row left to right
//   - UP: rows bottom to top, each row left to right
//   - LEFT: columns left to right, each column top to bottom
//   - RIGHT: columns right to left, each column top to bottom
//   - RANDOM: uniform random permutation, reshuffled on every Reset
//   - SPIRAL_FROM_CENTER: outward square spiral starting at (w/2, h/2)
//   - SPIRAL_TO_CENTER: the SPIRAL_FROM_CENTER order reversed
//
// # Laziness
//
// A Sequencer produces one position per Next call and can be restarted with
// Reset. The row/column orders and SPIRAL_FROM_CENTER compute positions on
// demand. RANDOM and SPIRAL_TO_CENTER buffer all w*h positions when the
// sequencer is created or reset, so their cost is paid up front no matter how
// many positions the caller consumes.
//
// # Thread Safety
//
// A Sequencer holds iteration state and must not be shared between goroutines.
// Positions returns an iterator that builds a fresh Sequencer per range loop.
package strategy
