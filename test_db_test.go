package workerinject_test

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/txix-open/workerinject"
)

type db struct {
	defaultDb *sql.DB
	schema    string
	*sql.DB
}

// preparePgTest needs POSTGRES_HOST pointing to a database with user, password and db named "test".
func preparePgTest(t *testing.T) (*require.Assertions, *db, *workerinject.Client) {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		t.Skip("POSTGRES_HOST is not set")
	}
	asserter := require.New(t)

	dsn := fmt.Sprintf("postgres://test:test@%s:5432/test", host)
	db, err := openDb(dsn, t)
	asserter.NoError(err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	err = applyMigration(db.DB)
	asserter.NoError(err)

	store, err := workerinject.NewPgStore(context.Background(), db.DB)
	asserter.NoError(err)

	return asserter, db, workerinject.NewClient(store)
}

func openDb(dsn string, t *testing.T) (*db, error) {
	schema := strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))
	defaultDb, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.WithMessage(err, "open")
	}
	defaultDb.SetMaxOpenConns(1)

	_, err = defaultDb.Exec(fmt.Sprintf("CREATE SCHEMA %s", schema))
	if err != nil {
		return nil, errors.WithMessage(err, "create schema")
	}

	uri, err := url.Parse(dsn)
	if err != nil {
		return nil, errors.WithMessage(err, "parse dsn")
	}
	query := uri.Query()
	query.Set("search_path", schema)
	uri.RawQuery = query.Encode()

	tempDb, err := sql.Open("pgx", uri.String())
	if err != nil {
		return nil, errors.WithMessage(err, "open")
	}
	err = tempDb.Ping()
	if err != nil {
		return nil, errors.WithMessage(err, "ping")
	}

	return &db{
		defaultDb: defaultDb,
		DB:        tempDb,
		schema:    schema,
	}, nil
}

func (db *db) Close() error {
	_, err := db.defaultDb.Exec(fmt.Sprintf("DROP SCHEMA %s CASCADE", db.schema))
	if err != nil {
		return errors.WithMessage(err, "drop schema")
	}

	_ = db.defaultDb.Close()
	_ = db.DB.Close()

	return nil
}

func applyMigration(db *sql.DB) error {
	query, err := os.ReadFile("migration/init.sql")
	if err != nil {
		return errors.WithMessage(err, "read migration")
	}

	_, err = db.Exec(string(query))
	return errors.WithMessage(err, "migration exec")
}

func getJob(db *sql.DB, table string, idColumn string, id string) (*workerinject.Job, error) {
	query := fmt.Sprintf(`
SELECT %[2]s, queue, type, arg, attempt, last_error, next_run_at, request_id
FROM %[1]s
WHERE %[2]s = $1
`, table, idColumn)
	job := workerinject.Job{}
	err := db.QueryRow(query, id).Scan(
		&job.Id,
		&job.Queue,
		&job.Type,
		&job.Arg,
		&job.Attempt,
		&job.LastError,
		&job.NextRunAt,
		&job.RequestId,
	)
	if err != nil {
		return nil, errors.WithMessage(err, "select job")
	}
	return &job, nil
}
