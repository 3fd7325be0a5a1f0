// Package mongo provides the MongoDB storage driver of tracker-server.
//
// Accounts live in the "user-info" collection and expenses in
// "daily-expenses". A unique index on the normalized email enforces one
// account per address.
package mongo
