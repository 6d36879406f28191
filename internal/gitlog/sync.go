// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package gitlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kraklabs/roam/internal/model"
	"github.com/kraklabs/roam/internal/store"
)

// Sync ingests up to limit commits of history into GitCommit/GitFileChange
// rows and accumulates GitCochange counts for files that changed together
// within the same commit (§4.6.4 Coupling's data source). Paths not present
// in the files table (renamed away, deleted, or never indexed) are skipped.
// On success it refreshes FileStats (§3) from the newly synced history plus
// whatever SymbolMetrics are already persisted, so HealthEngine's
// avg_file_health term reflects real data instead of a placeholder.
func Sync(ctx context.Context, st *store.Store, repo *Repo, ref string, limit int) (int, error) {
	commits, err := repo.Log(ctx, ref, limit)
	if err != nil {
		return 0, err
	}

	tx, err := st.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ingested := 0
	for _, c := range commits {
		if err := store.UpsertGitCommit(ctx, tx, model.GitCommit{SHA: c.SHA, Author: c.Author, Timestamp: c.Timestamp, Message: c.Message}); err != nil {
			return ingested, fmt.Errorf("upsert commit %s: %w", c.SHA, err)
		}

		var fileIDs []int64
		for _, fc := range c.Files {
			fileID, err := store.FileIDByPath(ctx, tx, fc.Path)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return ingested, fmt.Errorf("lookup file %s: %w", fc.Path, err)
			}
			if err := store.InsertGitFileChange(ctx, tx, model.GitFileChange{
				SHA: c.SHA, FileID: fileID, Additions: fc.Additions, Deletions: fc.Deletions,
			}); err != nil {
				return ingested, fmt.Errorf("insert file change %s: %w", fc.Path, err)
			}
			fileIDs = append(fileIDs, fileID)
		}

		for i := 0; i < len(fileIDs); i++ {
			for j := i + 1; j < len(fileIDs); j++ {
				if err := store.UpsertGitCochange(ctx, tx, fileIDs[i], fileIDs[j], 1); err != nil {
					return ingested, fmt.Errorf("upsert cochange: %w", err)
				}
			}
		}

		ingested++
	}

	if err := tx.Commit(); err != nil {
		return ingested, fmt.Errorf("commit: %w", err)
	}

	if err := RefreshFileStats(ctx, st); err != nil {
		return ingested, fmt.Errorf("refresh file stats: %w", err)
	}

	return ingested, nil
}
