package models

import "time"

// Playlist is a user-curated collection of catalog items of any content type.
// ItemCount is the denormalized total across every item table.
type Playlist struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"not null;size:120" json:"name"`
	Description    string       `gorm:"type:text" json:"description"`
	IsPrivate      bool         `gorm:"not null;default:false" json:"is_private"`
	IsArchived     bool         `gorm:"not null;default:false" json:"is_archived"`
	ItemCount      int          `gorm:"not null;default:0" json:"item_count"`
	ContentType    *ContentType `gorm:"size:16" json:"content_type,omitempty"`
	CoverImageHash string       `gorm:"size:64" json:"cover_image_hash,omitempty"`
	UserID         uint         `gorm:"not null;index" json:"user_id"`
	User           *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// PlaylistMovie places a movie in a playlist.
type PlaylistMovie struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"not null;uniqueIndex:idx_playlist_movie" json:"playlist_id"`
	MovieID    uint      `gorm:"not null;uniqueIndex:idx_playlist_movie" json:"movie_id"`
	Movie      *Movie    `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlaylistSerie places a serie in a playlist.
type PlaylistSerie struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"not null;uniqueIndex:idx_playlist_serie" json:"playlist_id"`
	SerieID    uint      `gorm:"not null;uniqueIndex:idx_playlist_serie" json:"serie_id"`
	Serie      *Serie    `gorm:"foreignKey:SerieID" json:"serie,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName matches the other playlist item tables.
func (PlaylistSerie) TableName() string { return "playlist_series" }

// PlaylistSeason places a season in a playlist.
type PlaylistSeason struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"not null;uniqueIndex:idx_playlist_season" json:"playlist_id"`
	SeasonID   uint      `gorm:"not null;uniqueIndex:idx_playlist_season" json:"season_id"`
	Season     *Season   `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlaylistEpisode places an episode in a playlist.
type PlaylistEpisode struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"not null;uniqueIndex:idx_playlist_episode" json:"playlist_id"`
	EpisodeID  uint      `gorm:"not null;uniqueIndex:idx_playlist_episode" json:"episode_id"`
	Episode    *Episode  `gorm:"foreignKey:EpisodeID" json:"episode,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlaylistActor places an actor in a playlist.
type PlaylistActor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"not null;uniqueIndex:idx_playlist_actor" json:"playlist_id"`
	ActorID    uint      `gorm:"not null;uniqueIndex:idx_playlist_actor" json:"actor_id"`
	Actor      *Actor    `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlaylistCrew places a crew member in a playlist.
type PlaylistCrew struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlaylistID uint      `gorm:"not null;uniqueIndex:idx_playlist_crew" json:"playlist_id"`
	CrewID     uint      `gorm:"not null;uniqueIndex:idx_playlist_crew" json:"crew_id"`
	Crew       *Crew     `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName keeps crew rows beside the other playlist item tables.
func (PlaylistCrew) TableName() string { return "playlist_crew" }

// PlaylistItem is one resolved row of a playlist tab. Exactly one of the
// pointers is set, matching ContentType.
type PlaylistItem struct {
	ContentType ContentType `json:"content_type"`
	AddedAt     time.Time   `json:"added_at"`
	Movie       *Movie      `json:"movie,omitempty"`
	Serie       *Serie      `json:"serie,omitempty"`
	Season      *Season     `json:"season,omitempty"`
	Episode     *Episode    `json:"episode,omitempty"`
	Actor       *Actor      `json:"actor,omitempty"`
	Crew        *Crew       `json:"crew,omitempty"`
}
