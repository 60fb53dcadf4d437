package models

import "time"

// Genre classifies movies and series.
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:64" json:"name"`
	Slug string `gorm:"uniqueIndex;not null;size:64" json:"slug"`
}

// Movie is a single feature in the catalog.
type Movie struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null;index" json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Overview    string     `gorm:"type:text" json:"overview"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Runtime     int        `json:"runtime"`
	Rating      float64    `json:"rating"`
	PosterURL   string     `json:"poster_url"`
	Genres      []Genre    `gorm:"many2many:movie_genres;" json:"genres,omitempty"`
	Actors      []Actor    `gorm:"many2many:movie_actors;" json:"actors,omitempty"`
	Crew        []Crew     `gorm:"many2many:movie_crew;" json:"crew,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Serie is a television series; it owns its seasons.
type Serie struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"not null;index" json:"title"`
	Slug         string     `gorm:"uniqueIndex;not null" json:"slug"`
	Overview     string     `gorm:"type:text" json:"overview"`
	FirstAirDate *time.Time `json:"first_air_date,omitempty"`
	Rating       float64    `json:"rating"`
	PosterURL    string     `json:"poster_url"`
	Genres       []Genre    `gorm:"many2many:serie_genres;" json:"genres,omitempty"`
	Actors       []Actor    `gorm:"many2many:serie_actors;" json:"actors,omitempty"`
	Crew         []Crew     `gorm:"many2many:serie_crew;" json:"crew,omitempty"`
	Seasons      []Season   `gorm:"foreignKey:SerieID;constraint:OnDelete:CASCADE" json:"seasons,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName keeps "series" as the table name; the default pluralizer would not.
func (Serie) TableName() string { return "series" }

// Season belongs to a serie and owns its episodes.
type Season struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SerieID      uint       `gorm:"not null;uniqueIndex:idx_season_serie_number" json:"serie_id"`
	Serie        *Serie     `gorm:"foreignKey:SerieID" json:"serie,omitempty"`
	SeasonNumber int        `gorm:"not null;uniqueIndex:idx_season_serie_number" json:"season_number"`
	Name         string     `json:"name"`
	Overview     string     `gorm:"type:text" json:"overview"`
	AirDate      *time.Time `json:"air_date,omitempty"`
	PosterURL    string     `json:"poster_url"`
	Episodes     []Episode  `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE" json:"episodes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Episode is the leaf of the serie > season > episode tree.
type Episode struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	SeasonID      uint       `gorm:"not null;uniqueIndex:idx_episode_season_number" json:"season_id"`
	Season        *Season    `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	EpisodeNumber int        `gorm:"not null;uniqueIndex:idx_episode_season_number" json:"episode_number"`
	Title         string     `gorm:"not null" json:"title"`
	Overview      string     `gorm:"type:text" json:"overview"`
	AirDate       *time.Time `json:"air_date,omitempty"`
	Runtime       int        `json:"runtime"`
	StillURL      string     `json:"still_url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Actor is a cast member credited on movies and series.
type Actor struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null;index" json:"name"`
	Slug      string     `gorm:"uniqueIndex;not null" json:"slug"`
	Biography string     `gorm:"type:text" json:"biography"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	PhotoURL  string     `json:"photo_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Crew is an off-screen contributor (director, writer, composer...).
type Crew struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null;index" json:"name"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	PhotoURL   string    `json:"photo_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName names the table after its members.
func (Crew) TableName() string { return "crew_members" }
