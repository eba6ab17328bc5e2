// Package otp implements the time-based one-time password (TOTP) engine used
// for step-up authentication.
//
// Every operation takes the reference time explicitly, so verification is a
// pure function of (secret, code, time) and tests never depend on the wall
// clock. Secrets are base32 strings suitable for authenticator apps.
package otp
