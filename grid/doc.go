// Package grid provides the canonical time-frequency grid shared by every
// conversion.
//
// A Grid holds one {left, right} amplitude pair per (time frame, frequency
// bin) cell. Image and audio adapters only ever talk to each other through a
// Grid, so adding a new file format means writing one grid adapter. The
// package also provides:
//   - the error sentinels used throughout the module
//   - a compact half-float dump format (.cgrid) for persisting grids
package grid
