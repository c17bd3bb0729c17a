// Package services contains the application services of the warehouse
// client: per-entity repositories, the upload path and authentication.
//
// Every service talks to the backend through client.Transport first and
// falls back to the local mirror when the call fails. Reads that have no
// local substitute (Get, Me) return the original error; writes (Create,
// Update, Delete, Upload) log the failure and return a locally produced
// result instead.
package services
