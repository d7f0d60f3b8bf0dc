package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/user"
)

type (
	// DB keeps everything in process memory. Collections are held encoded, the way
	// the durable backends hold them, so every load hands out fresh values.
	DB struct {
		user        *userTable
		collections *collectionTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		order []string // insertion order
	}

	collectionTable struct {
		sync.RWMutex
		table map[string][]byte
	}
)

func Open() *DB {
	return &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		collections: &collectionTable{table: make(map[string][]byte)},
	}
}

func (db *DB) Close() error { return nil }
