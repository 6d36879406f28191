// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package routput

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestJSONTo_PrettyPrintsWithTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"project_id": "demo", "count": 42}

	if err := JSONTo(&buf, data); err != nil {
		t.Fatalf("JSONTo failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "  \"project_id\"") {
		t.Errorf("expected 2-space indentation, got: %s", out)
	}
	if !strings.Contains(out, `"count": 42`) {
		t.Errorf("missing count field, got: %s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("expected trailing newline, got: %q", out)
	}
}

func TestJSONCompactTo_SingleLine(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"project_id": "demo"}

	if err := JSONCompactTo(&buf, data); err != nil {
		t.Fatalf("JSONCompactTo failed: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "  ") {
		t.Errorf("compact JSON should not be indented, got: %s", out)
	}
	if !strings.Contains(out, `"project_id":"demo"`) {
		t.Errorf("missing project_id field, got: %s", out)
	}
}

func TestJSONErrorTo_WrapsErrorField(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONErrorTo(&buf, errors.New("no index found for this project")); err != nil {
		t.Fatalf("JSONErrorTo failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"error": "no index found for this project"`) {
		t.Errorf("missing error field, got: %s", buf.String())
	}
}
