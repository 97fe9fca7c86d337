package main

import (
	"errors"
	"strings"
	"testing"

	"pkginit/internal/gen"
)

func TestRenderReportSummary(t *testing.T) {
	t.Parallel()

	results := gen.Results{
		"a": {Path: "a", Changed: true, NewContent: "new a\n"},
		"b": {Path: "b", Changed: false},
		"c": {Path: "c", Skipped: true, Errors: []error{errors.New("bad config")}},
	}

	out := renderReport(results)
	if !strings.Contains(out, "1 changed, 1 unchanged, 1 skipped, 1 error(s)") {
		t.Errorf("summary line wrong:\n%s", out)
	}
	if !strings.Contains(out, "bad config") {
		t.Errorf("errors should be listed:\n%s", out)
	}
}

func TestRenderPreviewShowsChangedContent(t *testing.T) {
	t.Parallel()

	results := gen.Results{
		"":    {Path: "", Changed: true, NewContent: "root content\n"},
		"sub": {Path: "sub", Changed: false, NewContent: "sub content\n"},
	}

	out := renderPreview(results)
	if !strings.Contains(out, "root content") {
		t.Errorf("changed content should be shown:\n%s", out)
	}
	if strings.Contains(out, "sub content") {
		t.Errorf("unchanged content should be omitted:\n%s", out)
	}
}

func TestRenderReportRootPathDisplay(t *testing.T) {
	t.Parallel()

	results := gen.Results{"": {Path: "", Changed: true}}
	out := renderReport(results)
	if !strings.Contains(out, ".") {
		t.Errorf("root renders as '.':\n%s", out)
	}
}

func TestSortedResultsDeterministic(t *testing.T) {
	t.Parallel()

	results := gen.Results{
		"z": {Path: "z"},
		"a": {Path: "a"},
		"m": {Path: "m"},
	}

	var paths []string
	for _, r := range sortedResults(results) {
		paths = append(paths, r.Path)
	}
	want := []string{"a", "m", "z"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("order: %v", paths)
		}
	}
}
