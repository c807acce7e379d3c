// Package subprocess runs the launcher jar as a child process.
//
// Process implements config.Transport: it spawns java with the jar, relays
// both output streams as classified events, serializes writes to stdin and
// reports an unrequested non-zero exit as a fatal error. It tracks whether
// a game session is active so shutdown can tell a bare launcher from one
// with a running game.
package subprocess
