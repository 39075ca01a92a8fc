// Package sim wires the launch settings, the launch controller and the tick
// policy to a physics world and drives them in a fixed order.
//
// A [Session] is the context object for one sandbox: it owns the parameter
// store and holds the world and projectile handles. Input arrives as
// messages:
//
//   - [params.Command] values (angle, force, wind, gravity inputs)
//   - [Launch] for the launch button
//
// Messages queue until the next [Session.Step], which always runs
//
//	pending messages → world.Step → tick policy → observers and metrics
//
// [Session.Run] repeats Step for a fixed number of ticks and delivers
// scripted messages before the tick they are scheduled for.
//
// # Thread Safety
//
// Sessions are NOT thread-safe. [Sweep] runs independent sessions, each
// with its own world, in parallel.
package sim
