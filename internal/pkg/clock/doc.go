// Package clock provides a tiny time abstraction.
//
// Code that needs "now" depends on Clocker and passes the returned instant
// down explicitly, so TOTP verification can be replayed at any fixed time.
package clock
