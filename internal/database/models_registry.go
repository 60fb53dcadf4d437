package database

import "cinetheque/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Parents come before the tables that reference them.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Genre{},
		&models.Actor{},
		&models.Crew{},
		&models.Movie{},
		&models.Serie{},
		&models.Season{},
		&models.Episode{},
		&models.ForumCategory{},
		&models.ForumTag{},
		&models.ForumTopic{},
		&models.ForumPost{},
		&models.ForumReply{},
		&models.UpvoteForumTopic{},
		&models.DownvoteForumTopic{},
		&models.UpvoteForumPost{},
		&models.DownvoteForumPost{},
		&models.ForumUserStats{},
		&models.Playlist{},
		&models.PlaylistMovie{},
		&models.PlaylistSerie{},
		&models.PlaylistSeason{},
		&models.PlaylistEpisode{},
		&models.PlaylistActor{},
		&models.PlaylistCrew{},
		&models.EpisodeBookmark{},
		&models.Image{},
	}
}
