// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store, using database/sql over the pgx
// stdlib driver. JSON-shaped columns (question lists, concept lists,
// strengths/weaknesses) are stored as jsonb.
package postgres
