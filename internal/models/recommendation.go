package models

// Recommendation is a single ranked result item. It is derived per call
// and never persisted; the composite score is on a 0-100 scale.
type Recommendation struct {
	ShowID      string      `json:"show_id"`
	TitleName   string      `json:"title_name"`
	Category    string      `json:"category"`
	SubCategory string      `json:"sub_category,omitempty"`
	ContentType ContentType `json:"type"`
	Duration    int         `json:"duration"`
	AgeRating   AgeRating   `json:"age_rating"`
	Year        int         `json:"year"`
	Language    string      `json:"language"`
	Rating      *float64    `json:"imdb_rating"`
	Score       float64     `json:"score"`
}

// SimilarTitle is a catalog title scored by similarity to a reference title.
type SimilarTitle struct {
	ShowID    string   `json:"show_id"`
	TitleName string   `json:"title_name"`
	Category  string   `json:"category"`
	Year      int      `json:"year"`
	Rating    *float64 `json:"imdb_rating"`
	Score     float64  `json:"similarity_score"`
}

// CatalogStats summarizes the catalog and profile store contents.
type CatalogStats struct {
	TotalAccounts    int64    `json:"total_accounts"`
	TotalProfiles    int64    `json:"total_profiles"`
	TotalTitles      int64    `json:"total_titles"`
	KidsProfiles     int64    `json:"kids_profiles"`
	KidsContent      int64    `json:"kids_content"`
	Movies           int64    `json:"movies"`
	Series           int64    `json:"series"`
	RatedTitles      int64    `json:"titles_with_ratings"`
	AvgRating        *float64 `json:"avg_imdb_rating"`
	UniqueCategories int64    `json:"unique_categories"`
	UniqueLanguages  int64    `json:"unique_languages"`
	UniqueRegions    int64    `json:"unique_regions"`
}
