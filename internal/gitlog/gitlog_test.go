// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package gitlog

import "testing"

func TestParseLog_SingleCommitWithNumstat(t *testing.T) {
	out := "abc123" + logFieldSep + "Jane Doe" + logFieldSep + "1700000000" + logFieldSep + "fix bug" + logRecordSep + "\n" +
		"3\t1\tinternal/foo.go\n2\t0\tinternal/bar.go\n"

	commits := parseLog([]byte(out))
	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	c := commits[0]
	if c.SHA != "abc123" || c.Author != "Jane Doe" || c.Timestamp != 1700000000 || c.Message != "fix bug" {
		t.Fatalf("unexpected commit header: %+v", c)
	}
	if len(c.Files) != 2 {
		t.Fatalf("expected 2 file changes, got %d", len(c.Files))
	}
	if c.Files[0].Path != "internal/foo.go" || c.Files[0].Additions != 3 || c.Files[0].Deletions != 1 {
		t.Fatalf("unexpected file change: %+v", c.Files[0])
	}
}

func TestParseLog_MultipleCommits(t *testing.T) {
	out := "sha1" + logFieldSep + "a" + logFieldSep + "1" + logFieldSep + "m1" + logRecordSep + "\n1\t0\ta.go\n" +
		"sha2" + logFieldSep + "b" + logFieldSep + "2" + logFieldSep + "m2" + logRecordSep + "\n2\t2\tb.go\n"

	commits := parseLog([]byte(out))
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	if commits[0].SHA != "sha1" || commits[1].SHA != "sha2" {
		t.Fatalf("unexpected commit order: %+v", commits)
	}
}

func TestParseNumstat_BinaryMarkersParseAsZeroChurn(t *testing.T) {
	changes := parseNumstat("-\t-\timage.png\n4\t2\tmain.go\n")
	if len(changes) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(changes))
	}
	if changes[0].Path != "image.png" || changes[0].Additions != 0 {
		t.Fatalf("expected binary marker to parse as zero churn, got %+v", changes[0])
	}
	if changes[1].Additions != 4 || changes[1].Deletions != 2 {
		t.Fatalf("unexpected numstat parse: %+v", changes[1])
	}
}

func TestSplitLines_TrimsAndSkipsBlank(t *testing.T) {
	lines := splitLines([]byte("a.go\n\nb.go\n  \nc.go\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 non-blank lines, got %v", lines)
	}
}
