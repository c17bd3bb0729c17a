// Package mirror keeps the local copy of entity collections and uploaded
// files that the client falls back to when the backend cannot be reached.
//
// The mirror is a single JSON document stored under EntitiesKey:
//
//	{"product": [{"id": "1", ...}, ...], "supplier": [...]}
//
// Entity names are normalized (trimmed, lower-cased). Within one entity ids
// are unique when compared as strings, and insertion order is kept except
// where a record is updated in place. Corrupt or missing data always reads
// as an empty list.
//
// Every read-modify-write of the document is serialized by a mutex held by
// the Mirror, so concurrent upserts and removals from several goroutines
// cannot lose each other's changes. Remote calls never run under this lock.
package mirror
