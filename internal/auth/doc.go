// Package auth implements the credential policy that the users
// repository deliberately does not: bcrypt hashing and verification,
// registration input validation and credential checks.
//
// The repository stores password hashes as opaque strings; only this
// package ever produces or compares them. Token issuance, sessions and
// any other wire-level authentication protocol belong to the web
// layer, not here.
package auth
