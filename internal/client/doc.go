// Package client implements the launcher supervisor.
//
// A Client owns one launcher process from Start to Close. It relays the
// launcher's output onto an event bus on a single goroutine, correlates
// login and launch commands with their replies through the protocol
// package, and stops the launcher through the shutdown package.
//
// An unexpected launcher exit or an exception during launch is fatal: Done
// is closed and Err returns a FatalError. The client never exits the
// program itself; callers decide how to stop.
package client
