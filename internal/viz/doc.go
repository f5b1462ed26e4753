// Package viz draws a running gravity simulation in the terminal.
//
//   - [Model]: Bubble Tea view that steps a [sim.Clock] from a frame tick
//     and draws bodies with trails on a braille [Canvas]
//   - [App]: scenario menu that opens the chosen preset or file in a Model
//   - [Theme]: color schemes mapping scenario color tokens to terminal colors
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Single step while paused
//	+/-   - Zoom in/out
//	C     - Re-center on the center of mass
//	S     - Save the current state as a scenario file
//	T     - Cycle color themes
//	Q     - Quit
//
// The physics rate is tied to the frame rate: every frame advances the
// clock by a fixed number of steps.
package viz
