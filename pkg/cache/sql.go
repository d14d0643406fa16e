package cache

import (
	"database/sql"
	"log"
)

func buildCreateResponsesTable() string {
	return `CREATE TABLE IF NOT EXISTS responses (
		url TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		fetched_at INTEGER NOT NULL);`
}

func buildSelectResponse() string {
	return `SELECT body, fetched_at FROM responses WHERE url = ?`
}

func buildUpsertResponse() string {
	return `INSERT OR REPLACE INTO responses (url, body, fetched_at) VALUES (?, ?, ?)`
}

func processSelectResponseRows(rows *sql.Rows) ([]byte, int64, bool) {
	defer rows.Close()

	// only can be one row
	if rows.Next() {
		var body []byte
		var fetchedAt int64
		if err := rows.Scan(&body, &fetchedAt); err != nil {
			log.Printf("error scanning cache row: %s\n", err)
			return nil, 0, false
		}
		return body, fetchedAt, true
	}
	if err := rows.Err(); err != nil {
		log.Printf("error iterating cache rows: %s\n", err)
	}
	return nil, 0, false
}
