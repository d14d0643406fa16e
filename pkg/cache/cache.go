// Package cache is the on-disk provider response cache. Enabling it is
// optional and failing to enable it only costs performance, never
// correctness.
package cache

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFileName = "f1viz-cache.db"

type Cache struct {
	db     *sql.DB
	mu     sync.Mutex
	maxAge time.Duration
	now    func() time.Time
}

// Enable opens the response cache inside dir, creating the directory and the
// backing database as needed. maxAge 0 keeps entries forever.
func Enable(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFileName))
	if err != nil {
		log.Printf("error opening cache database: %s\n", err)
		return nil, err
	}

	if _, err := db.Exec(buildCreateResponsesTable()); err != nil {
		log.Printf("error init cache database: %s\n", err)
		db.Close()
		return nil, err
	}

	return &Cache{
		db:     db,
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db.Close()
}

// Get returns the cached body for the url. Entries older than maxAge are
// misses.
func (c *Cache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(buildSelectResponse(), url)
	if err != nil {
		log.Printf("error reading cache: %s\n", err)
		return nil, false
	}
	body, fetchedAt, ok := processSelectResponseRows(rows)
	if !ok {
		return nil, false
	}
	if c.maxAge > 0 && c.now().Sub(time.Unix(fetchedAt, 0)) > c.maxAge {
		return nil, false
	}
	return body, true
}

// Put stores the body for the url, replacing any previous entry. Failures
// are logged and swallowed.
func (c *Cache) Put(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(buildUpsertResponse(), url, body, c.now().Unix()); err != nil {
		log.Printf("error writing cache: %s\n", err)
	}
}
