package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitStatementsBasic(t *testing.T) {
	stmts := splitStatements("create table a(id int); create table b(id int);")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if !strings.Contains(stmts[0], "table a") || !strings.Contains(stmts[1], "table b") {
		t.Fatalf("unexpected split: %q", stmts)
	}
}

func TestSplitStatementsKeepsQuotedSemicolons(t *testing.T) {
	script := `insert into t(v) values ('a;b'); select 1;`
	stmts := splitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if !strings.Contains(stmts[0], "'a;b'") {
		t.Fatalf("quoted semicolon was split: %q", stmts[0])
	}
}

func TestSplitStatementsKeepsDollarQuotedBodies(t *testing.T) {
	script := `insert into articles(content) values ($$# Title

first; second; third$$); select 1;`
	stmts := splitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if !strings.Contains(stmts[0], "first; second; third") {
		t.Fatalf("dollar-quoted body was split: %q", stmts[0])
	}
}

func TestSplitStatementsTrailingWithoutSemicolon(t *testing.T) {
	stmts := splitStatements("select 1")
	if len(stmts) != 1 || strings.TrimSpace(stmts[0]) != "select 1" {
		t.Fatalf("unexpected result: %q", stmts)
	}
	if got := splitStatements("  \n "); len(got) != 0 {
		t.Fatalf("whitespace-only script must yield nothing, got %q", got)
	}
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCollectSQLOrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0002_articles.up.sql")
	writeFile(t, dir, "0001_users.up.sql")
	writeFile(t, dir, "0001_users.down.sql")
	writeFile(t, dir, "notes.txt")

	files, err := collectSQL(dir, ".up.sql")
	if err != nil {
		t.Fatalf("collectSQL: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 up migrations, got %d", len(files))
	}
	if files[0].base != "0001_users.up.sql" || files[1].base != "0002_articles.up.sql" {
		t.Fatalf("wrong order: %v", files)
	}
}

func TestCollectSQLSeedsExcludeDownFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001_sample.sql")
	writeFile(t, dir, "0001_sample.down.sql")

	files, err := collectSQL(dir, ".sql")
	if err != nil {
		t.Fatalf("collectSQL: %v", err)
	}
	if len(files) != 1 || files[0].base != "0001_sample.sql" {
		t.Fatalf("down file leaked into seeds: %v", files)
	}
}

func TestCollectSQLMissingDir(t *testing.T) {
	files, err := collectSQL(filepath.Join(t.TempDir(), "nope"), ".sql")
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if files != nil {
		t.Fatalf("expected no files, got %v", files)
	}
	files, err = collectSQL("", ".sql")
	if err != nil || files != nil {
		t.Fatalf("empty dir path must be a no-op, got %v %v", files, err)
	}
}
