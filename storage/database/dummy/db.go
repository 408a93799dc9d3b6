package dummydb

import (
	"sync"

	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/user"
)

type (
	// DB is an in-memory document store keeping the insertion order of each partition.
	DB struct {
		user       *userTable
		curriculum *curriculumTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
		order []string
	}

	curriculumTable struct {
		sync.RWMutex
		table  map[string]*curriculum.Curriculum
		byUser map[string][]string // {userID: [curriculumID]}
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		curriculum: &curriculumTable{
			table:  make(map[string]*curriculum.Curriculum),
			byUser: make(map[string][]string),
		},
	}
	return db, nil
}

func (db *DB) Close() error { return nil }
