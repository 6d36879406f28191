// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"strings"
)

// maxPlaceholders is the nominal cap on `?` placeholders substituted for a
// single {ph} token, well under SQLite's SQLITE_MAX_VARIABLE_NUMBER default.
const maxPlaceholders = 400

// BatchOpts carries optional SQL fragments to prepend/append to each chunked
// statement, e.g. an ORDER BY that must follow every chunk's WHERE clause.
type BatchOpts struct {
	Pre  string
	Post string
}

// BatchedIn splits ids into chunks of at most maxPlaceholders and runs tmpl
// once per chunk, substituting each {ph} occurrence with a comma-separated
// group of `?` placeholders sized to that chunk. run is invoked once per
// chunk with the expanded SQL and the chunk's ids (as query args, in order);
// callers append any ids needed for Pre/Post fragments themselves inside run.
func BatchedIn(ctx context.Context, ids []int64, tmpl string, opts BatchOpts, run func(ctx context.Context, query string, chunk []int64) error) error {
	if len(ids) == 0 {
		return nil
	}
	for start := 0; start < len(ids); start += maxPlaceholders {
		end := start + maxPlaceholders
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		placeholders := placeholderGroup(len(chunk))
		query := opts.Pre + strings.ReplaceAll(tmpl, "{ph}", placeholders) + opts.Post
		if err := run(ctx, query, chunk); err != nil {
			return err
		}
	}
	return nil
}

func placeholderGroup(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('?')
	}
	return b.String()
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// QueryBatchedIn runs a SELECT whose WHERE clause contains exactly one {ph}
// token against ids, chunked under the placeholder cap, invoking scan for
// every returned row across every chunk.
func QueryBatchedIn(ctx context.Context, db *sql.DB, ids []int64, tmpl string, opts BatchOpts, scan func(*sql.Rows) error) error {
	return BatchedIn(ctx, ids, tmpl, opts, func(ctx context.Context, query string, chunk []int64) error {
		rows, err := db.QueryContext(ctx, query, int64Args(chunk)...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}
