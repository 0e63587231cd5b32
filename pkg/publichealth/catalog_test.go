package publichealth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathFallsBackToDefault(t *testing.T) {
	catalog, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(catalog.Stats) != 6 {
		t.Fatalf("expected 6 built-in stats, got %d", len(catalog.Stats))
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `stats:
  - region: Test District
    metric: Flu Cases
    value: "42"
    trend: down
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	catalog, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(catalog.Stats) != 1 {
		t.Fatalf("expected 1 stat, got %d", len(catalog.Stats))
	}
	if catalog.Stats[0].Region != "Test District" || catalog.Stats[0].Trend != "down" {
		t.Fatalf("unexpected stat: %+v", catalog.Stats[0])
	}
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte("stats: []\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected empty catalog rejection")
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	catalog, err := Load("/nonexistent/catalog.yaml")
	if err == nil {
		t.Fatal("expected read error to be surfaced")
	}
	if len(catalog.Stats) != 6 {
		t.Fatalf("expected default catalog alongside the error, got %d stats", len(catalog.Stats))
	}
}
