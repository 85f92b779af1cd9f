package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Belphemur/streamly/internal/apperrors"
	"github.com/Belphemur/streamly/internal/models"
)

func init() {
	Register("sqlite", newSQLiteStore)
}

// sqliteStore implements Store on an embedded SQLite database via gorm,
// mirroring the relational schema the catalog was originally loaded into.
type sqliteStore struct {
	db *gorm.DB
}

func newSQLiteStore(opts Options) (Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("sqlite store: path is required")
	}

	db, err := gorm.Open(sqlite.Open(opts.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", opts.Path, err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.Title{},
	)
}

func (s *sqliteStore) GetAllTitles(ctx context.Context) ([]models.Title, error) {
	var titles []models.Title
	if err := s.db.WithContext(ctx).Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("querying titles: %w", err)
	}
	return titles, nil
}

func (s *sqliteStore) GetTitleByShowID(ctx context.Context, showID string) (*models.Title, error) {
	var title models.Title
	err := s.db.WithContext(ctx).Where("show_id = ?", showID).First(&title).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewTitleNotFoundError(showID)
		}
		return nil, fmt.Errorf("querying title %s: %w", showID, err)
	}
	return &title, nil
}

func (s *sqliteStore) ListTitles(ctx context.Context, page, perPage int, sortBy, order string) ([]models.Title, int64, error) {
	if page < 1 {
		page = 1
	}
	sortBy, order = NormalizeSort(sortBy, order)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Title{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting titles: %w", err)
	}

	var titles []models.Title
	err := s.db.WithContext(ctx).
		Order(fmt.Sprintf("%s %s", sortBy, order)).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&titles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing titles: %w", err)
	}
	return titles, total, nil
}

func (s *sqliteStore) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.Title{}).
		Distinct("category").
		Where("category <> '' AND category <> ?", "Unknown").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	return categories, nil
}

func (s *sqliteStore) Statistics(ctx context.Context) (*models.CatalogStats, error) {
	db := s.db.WithContext(ctx)
	stats := &models.CatalogStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalAccounts, db.Model(&models.Account{})},
		{&stats.TotalProfiles, db.Model(&models.Profile{})},
		{&stats.TotalTitles, db.Model(&models.Title{})},
		{&stats.KidsProfiles, db.Model(&models.Profile{}).Where("kids_profile = ?", true)},
		{&stats.KidsContent, db.Model(&models.Title{}).Where("is_kids_content = ?", true)},
		{&stats.Movies, db.Model(&models.Title{}).Where("type = ?", "Movie")},
		{&stats.Series, db.Model(&models.Title{}).Where("type = ?", "Series")},
		{&stats.RatedTitles, db.Model(&models.Title{}).Where("imdb_rating IS NOT NULL")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("computing statistics: %w", err)
		}
	}

	var avg *float64
	err := db.Model(&models.Title{}).
		Where("imdb_rating IS NOT NULL").
		Select("AVG(imdb_rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("computing average rating: %w", err)
	}
	stats.AvgRating = avg

	distincts := []struct {
		dest   *int64
		column string
	}{
		{&stats.UniqueCategories, "category"},
		{&stats.UniqueLanguages, "language"},
		{&stats.UniqueRegions, "origin_region"},
	}
	for _, d := range distincts {
		if err := db.Model(&models.Title{}).Distinct(d.column).Count(d.dest).Error; err != nil {
			return nil, fmt.Errorf("counting distinct %s: %w", d.column, err)
		}
	}

	return stats, nil
}

func (s *sqliteStore) GetProfile(ctx context.Context, profileID int) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewProfileNotFoundError(profileID)
		}
		return nil, fmt.Errorf("querying profile %d: %w", profileID, err)
	}
	return &profile, nil
}

func (s *sqliteStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Order("profile_id").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return profiles, nil
}

func (s *sqliteStore) GetProfilesByAccount(ctx context.Context, accountID int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("profile_id").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("listing profiles for account %d: %w", accountID, err)
	}
	return profiles, nil
}

func (s *sqliteStore) ReplaceCatalog(ctx context.Context, titles []models.Title) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Title{}).Error; err != nil {
			return fmt.Errorf("clearing titles: %w", err)
		}
		if len(titles) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(titles, 500).Error; err != nil {
			return fmt.Errorf("inserting titles: %w", err)
		}
		return nil
	})
}

func (s *sqliteStore) ReplaceProfiles(ctx context.Context, accounts []models.Account, profiles []models.Profile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Profile{}).Error; err != nil {
			return fmt.Errorf("clearing profiles: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.Account{}).Error; err != nil {
			return fmt.Errorf("clearing accounts: %w", err)
		}
		if len(accounts) > 0 {
			if err := tx.CreateInBatches(accounts, 500).Error; err != nil {
				return fmt.Errorf("inserting accounts: %w", err)
			}
		}
		if len(profiles) > 0 {
			if err := tx.CreateInBatches(profiles, 500).Error; err != nil {
				return fmt.Errorf("inserting profiles: %w", err)
			}
		}
		return nil
	})
}

func (s *sqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
