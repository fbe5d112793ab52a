package configlibsql

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct selects a database: a remote libsql database when Url is set,
// otherwise a local sqlite file.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		var opts []libsql.Option
		if config.AuthToken != "" {
			opts = append(opts, libsql.WithAuthToken(config.AuthToken))
		}
		connector, err := libsql.NewConnector(config.Url, opts...)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	}

	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	if config.File != ":memory:" {
		err := os.MkdirAll(filepath.Dir(config.File), 0755)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if config.File != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}
