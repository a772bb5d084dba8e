// Package storage persists selections and their forecasts to PostgreSQL.
//
// Two tables are used: travel, keyed by the "lat,long" coordinate string, and forecast,
// an append-only table of Current, Hourly and Daily rows sharing that key. There is no
// foreign key between them and the two inserts are not transactional; a travel row is
// always written before its forecast rows.
package storage
