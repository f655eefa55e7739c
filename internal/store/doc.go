// Package store defines the persistence interfaces used by the service
// and API layers, along with the sentinel errors store implementations
// return. Implementations live in internal/platform/postgres.
package store
