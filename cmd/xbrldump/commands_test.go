package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const instancePath = "../../pkg/core/xbrl/testdata/public.xbrl"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list", instancePath)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{
		"[taxonomies]\n",
		"jppfs_cor\tJapanese GAAP financial statements (jppfs)\t2\n",
		"PriorYearDuration\tduration 2020-04-01..2021-03-31\n",
		"jppfs_cor:Assets\n    CurrentYearInstant_NonConsolidatedMember 12345000 JPY -3\n",
		"    CurrentYearInstant [HTML] - -\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q\n%s", want, out)
		}
	}
}

func TestListCommand_CacheAndFormat(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv("XBRL_CACHE_DIR", cacheDir)

	out, err := run(t, "list", "--format", "markdown", "--cache", instancePath)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "## Facts") {
		t.Errorf("expected markdown output:\n%s", out)
	}
	files, _ := os.ReadDir(cacheDir)
	if len(files) != 1 {
		t.Errorf("expected one cached snapshot, got %d", len(files))
	}

	if _, err := run(t, "list", "--format", "csv", instancePath); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFactsCommand(t *testing.T) {
	out, err := run(t, "facts", "--name", "jpdei_cor:AmendmentFlagDEI", instancePath)
	if err != nil {
		t.Fatalf("facts failed: %v", err)
	}
	if out != "jpdei_cor:AmendmentFlagDEI\tCurrentYearInstant\tboolean\tfalse\t\t\n" {
		t.Errorf("facts output = %q", out)
	}

	out, err = run(t, "facts", "--prefix", "jppfs_cor", instancePath)
	if err != nil {
		t.Fatalf("facts --prefix failed: %v", err)
	}
	if !strings.HasPrefix(out, "# jppfs_cor: 2 names, 3 facts\n") {
		t.Errorf("prefix summary = %q", out)
	}

	if _, err := run(t, "facts", "--context", "NoSuchContext", instancePath); err == nil {
		t.Error("expected error for unknown context")
	}
	if _, err := run(t, "facts", "--name", "html", instancePath); err == nil {
		t.Error("expected error for unqualified name")
	}
}

func TestTaxonomyCommand_MissingSchema(t *testing.T) {
	if _, err := run(t, "taxonomy", t.TempDir()); err == nil {
		t.Error("expected missing taxonomy file error")
	}
}

func TestListCommand_CacheKeepsStdoutClean(t *testing.T) {
	t.Setenv("XBRL_CACHE_DIR", t.TempDir())
	config := filepath.Join(t.TempDir(), "none.yaml")

	execute := func(args ...string) (string, string) {
		cmd := NewRootCmd()
		var stdout, stderr bytes.Buffer
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		cmd.SetArgs(append([]string{"--config", config}, args...))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
		return stdout.String(), stderr.String()
	}

	plain, _ := execute("list", instancePath)
	cached, logs := execute("list", "--cache", instancePath)
	if cached != plain {
		t.Errorf("--cache changed the listing:\n%s\nwant:\n%s", cached, plain)
	}
	if !strings.Contains(logs, "[CACHE] Saved") {
		t.Errorf("expected cache log on stderr, got %q", logs)
	}
}
