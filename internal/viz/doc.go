// Package viz is the interactive terminal front-end for a launch session.
//
// [Model] is a Bubble Tea model that steps a [sim.Session] once per frame
// and draws the sandbox on a braille [Canvas]. Key presses become the same
// typed inputs a script would produce, so the live view and headless runs
// share one validation path.
//
// # Key Bindings
//
//	←/→   - Angle -1/+1 degree
//	↑/↓   - Force +0.005/-0.005
//	,/.   - Wind -1/+1
//	G     - Cycle gravity (earth, moon, mars)
//	Space - Launch
//	Tab   - Select a field
//	E     - Edit the selected field as text (Enter submits, Esc cancels)
//	P     - Pause/Resume
//	T     - Cycle color themes
//	Q     - Quit
//
// A [ReloadMsg] sent from outside the program moves the settings to a new
// parameter block, which is how config hot reload reaches a running view.
package viz
