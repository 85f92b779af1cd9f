package models

// Title represents a movie or series in the catalog.
// Rating and Votes are pointers because the source data genuinely lacks
// them for part of the catalog; absence is a signal of its own and must
// never be collapsed into zero.
type Title struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"-"`
	ShowID        string      `gorm:"column:show_id;size:50;uniqueIndex;not null" json:"show_id"`
	TitleName     string      `gorm:"column:title_name;size:500;not null;index" json:"title_name"`
	Category      string      `gorm:"size:100;not null;index" json:"category"`
	SubCategory   string      `gorm:"size:100;index" json:"sub_category"`
	ContentType   ContentType `gorm:"column:type;type:text;index" json:"type"`
	Duration      int         `gorm:"not null" json:"duration"`
	AgeRating     AgeRating   `gorm:"column:age_rating;type:text;index" json:"age_rating"`
	Year          int         `gorm:"not null;index" json:"year"`
	OriginRegion  string      `gorm:"size:100;index" json:"origin_region"`
	Language      string      `gorm:"size:50;index" json:"language"`
	EpisodeCount  int         `gorm:"not null;default:1" json:"episode_count"`
	IsKidsContent bool        `gorm:"not null;default:false;index" json:"is_kids_content"`
	Rating        *float64    `gorm:"column:imdb_rating;index" json:"imdb_rating"`
	Votes         *int64      `gorm:"column:imdb_votes" json:"imdb_votes"`
}

// TableName overrides the gorm table name
func (Title) TableName() string {
	return "titles"
}

// HasRating reports whether the title carries a rating value.
func (t *Title) HasRating() bool {
	return t.Rating != nil
}

// VoteCount returns the vote count, or 0 when absent.
func (t *Title) VoteCount() int64 {
	if t.Votes == nil {
		return 0
	}
	return *t.Votes
}
