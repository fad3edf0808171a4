// Package draw decides who wins a doorprize spin and how the wheel gets there.
//
// A spin picks a winner (honoring the forced-winner queue when its head
// matches a registered number), plans a forward-only rotation that centers the
// winning slice under the marker, and animates that rotation with a cubic
// ease-out. Time, frame scheduling, randomness and rendering are injected so a
// host (the terminal UI, tests, a display bridge) drives the engine from its
// own loop.
package draw
