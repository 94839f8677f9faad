// Package session defines the credential/identity bundle for an agent connection.
//
// A Config names the remote agent (region, agent id, alias id), carries the
// credential pair used to reach it, and optionally pins a session identifier.
// Once a connection is established the session id is stable until disconnect;
// the other fields are stable for the lifetime of that session.
//
// Configs handed to consumers are always defensive copies, and Redacted()
// produces a copy safe to log or print.
package session
