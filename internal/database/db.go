// Package database opens the MySQL connection pool the rest of the
// application shares.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open builds the DSN, opens the pool and pings it so a bad address or
// credential fails at startup instead of on the first request.
//
// parseTime=true makes the driver scan DATETIME columns into time.Time, which
// every model here relies on; loc=UTC pins those values to UTC regardless of
// the server's session time zone.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	cred := url.QueryEscape(user)
	if pass != "" {
		cred += ":" + url.QueryEscape(pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Every request holds one transaction for its whole lifetime, so the open
	// limit is effectively the in-flight request ceiling. Idle connections are
	// kept at the same count to avoid reconnect churn under steady load, and
	// recycled before typical proxy idle timeouts cut them server-side.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
