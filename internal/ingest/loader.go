package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/streamly/internal/metrics"
	"github.com/Belphemur/streamly/internal/store"
)

// SnapshotInvalidator drops any cached catalog snapshot so readers see the
// fresh data immediately after a reload.
type SnapshotInvalidator interface {
	Invalidate()
}

// Loader runs the ingest pipeline: clean the raw CSV exports, replace the
// store contents and invalidate the snapshot cache.
type Loader struct {
	store       store.Store
	invalidator SnapshotInvalidator
	logger      zerolog.Logger
}

// NewLoader creates a Loader. invalidator may be nil when no snapshot cache
// is in play.
func NewLoader(s store.Store, invalidator SnapshotInvalidator, logger zerolog.Logger) *Loader {
	return &Loader{store: s, invalidator: invalidator, logger: logger}
}

// Run ingests rawDir/titles.csv and rawDir/profiles.csv. When reportDir is
// non-empty a cleaning report file is written there.
func (l *Loader) Run(ctx context.Context, rawDir, reportDir string) (*Report, error) {
	cleaner := NewCleaner(l.logger)

	titlesFile, err := os.Open(filepath.Join(rawDir, "titles.csv"))
	if err != nil {
		return nil, fmt.Errorf("opening titles export: %w", err)
	}
	defer titlesFile.Close()

	titles, err := cleaner.LoadTitles(titlesFile)
	if err != nil {
		return nil, fmt.Errorf("cleaning titles: %w", err)
	}

	profilesFile, err := os.Open(filepath.Join(rawDir, "profiles.csv"))
	if err != nil {
		return nil, fmt.Errorf("opening profiles export: %w", err)
	}
	defer profilesFile.Close()

	profiles, err := cleaner.LoadProfiles(profilesFile)
	if err != nil {
		return nil, fmt.Errorf("cleaning profiles: %w", err)
	}
	accounts := cleaner.DeriveAccounts(profiles)

	if err := l.store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	if err := l.store.ReplaceProfiles(ctx, accounts, profiles); err != nil {
		return nil, fmt.Errorf("replacing profiles: %w", err)
	}
	if err := l.store.ReplaceCatalog(ctx, titles); err != nil {
		return nil, fmt.Errorf("replacing catalog: %w", err)
	}

	if l.invalidator != nil {
		l.invalidator.Invalidate()
	}
	metrics.CatalogReloadsTotal.Inc()

	report := cleaner.Report()
	for _, step := range report.Steps() {
		l.logger.Info().Msg(step)
	}
	if reportDir != "" {
		if err := writeReport(reportDir, report); err != nil {
			// The data is already loaded; a failed report file is not
			// worth failing the run over.
			l.logger.Warn().Err(err).Msg("Failed to write cleaning report")
		}
	}
	return report, nil
}

func writeReport(dir string, report *Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	now := time.Now()
	var b strings.Builder
	b.WriteString("STREAMLY DATA CLEANING REPORT\n")
	b.WriteString("Timestamp: " + now.Format(time.RFC3339) + "\n\n")
	for i, step := range report.Steps() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	path := filepath.Join(dir, fmt.Sprintf("cleaning_report_%s.txt", now.Format("20060102_150405")))
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
