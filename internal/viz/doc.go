// Package viz provides the terminal view of a running soup.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulator, particles drawn in species colors
//   - [Canvas]: Braille-based pixel canvas, 2×4 dots per cell
//   - [Menu]: preset picker that hands off to a live Model
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	.     - Single step while paused
//	R     - Scatter a fresh population
//	M     - Randomize the force matrix
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
