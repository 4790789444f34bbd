// Package store is the typed record-store client. It is the sole
// writer-of-record for payments, orders, grants and their satellite tables;
// no business logic lives here. Lookups return (nil, nil) when no row
// matches, so callers distinguish absence from query failure.
package store

import "gorm.io/gorm"

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
