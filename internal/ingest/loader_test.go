package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/store"
)

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate() { f.calls++ }

func writeRawExports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "titles.csv"), []byte(titlesCSV), 0o644); err != nil {
		t.Fatalf("Writing titles.csv failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "profiles.csv"), []byte(profilesCSV), 0o644); err != nil {
		t.Fatalf("Writing profiles.csv failed: %v", err)
	}
	return dir
}

func TestLoaderRun(t *testing.T) {
	s, err := store.Open("memory", store.Options{})
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	defer s.Close()

	rawDir := writeRawExports(t)
	reportDir := t.TempDir()
	inv := &fakeInvalidator{}

	loader := NewLoader(s, inv, zerolog.Nop())
	report, err := loader.Run(context.Background(), rawDir, reportDir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.TitlesRead != 4 || report.ProfilesRead != 5 || report.AccountsDerived != 2 {
		t.Errorf("Report counts wrong: %+v", report)
	}
	if inv.calls != 1 {
		t.Errorf("Expected 1 cache invalidation, got %d", inv.calls)
	}

	ctx := context.Background()
	titles, err := s.GetAllTitles(ctx)
	if err != nil {
		t.Fatalf("GetAllTitles failed: %v", err)
	}
	if len(titles) != 4 {
		t.Errorf("Expected 4 titles in store, got %d", len(titles))
	}
	profile, err := s.GetProfile(ctx, 2)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if !profile.KidsProfile {
		t.Error("Profile 2 should be a kids profile after ingest")
	}

	entries, err := os.ReadDir(reportDir)
	if err != nil {
		t.Fatalf("Reading report dir failed: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "cleaning_report_") {
		t.Errorf("Expected one cleaning report file, got %v", entries)
	}
}

func TestLoaderRunMissingExports(t *testing.T) {
	s, err := store.Open("memory", store.Options{})
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	defer s.Close()

	loader := NewLoader(s, nil, zerolog.Nop())
	if _, err := loader.Run(context.Background(), t.TempDir(), ""); err == nil {
		t.Fatal("Expected error for missing raw exports")
	}
}
