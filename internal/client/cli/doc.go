// Package cli implements the wms command line: entity queries and edits,
// file uploads, authentication, connectivity checks, and backup of the
// local store. Every command runs through a session.Session, so commands
// keep working from the local mirror when the backend is unreachable.
package cli
