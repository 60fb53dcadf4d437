package service

import (
	"context"
	"log/slog"

	"cinetheque/internal/middleware"
	"cinetheque/internal/models"
	"cinetheque/internal/pagination"
	"cinetheque/internal/repository"
)

// Notice levels.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is a user-facing outcome message.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// BookmarkService keeps users' episode bookmarks.
type BookmarkService struct {
	bookmarks repository.BookmarkRepository
}

func NewBookmarkService(bookmarks repository.BookmarkRepository) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks}
}

// BookmarkEpisode bookmarks episode for user. Without a user or an episode it
// does nothing and returns nil. Persistence failures are logged and reported
// as an error notice.
func (s *BookmarkService) BookmarkEpisode(ctx context.Context, user *models.User, episode *models.Episode) *Notice {
	if user == nil || user.ID == 0 || episode == nil || episode.ID == 0 {
		return nil
	}
	if err := s.bookmarks.Add(ctx, user.ID, episode.ID); err != nil {
		logBookmarkFailure(ctx, "bookmark episode failed", user.ID, episode.ID, err)
		return &Notice{Level: NoticeError, Message: "Could not bookmark this episode."}
	}
	return &Notice{Level: NoticeSuccess, Message: "Episode bookmarked."}
}

// RemoveEpisodeBookmark mirrors BookmarkEpisode for removal.
func (s *BookmarkService) RemoveEpisodeBookmark(ctx context.Context, user *models.User, episode *models.Episode) *Notice {
	if user == nil || user.ID == 0 || episode == nil || episode.ID == 0 {
		return nil
	}
	if err := s.bookmarks.Remove(ctx, user.ID, episode.ID); err != nil {
		logBookmarkFailure(ctx, "remove episode bookmark failed", user.ID, episode.ID, err)
		return &Notice{Level: NoticeError, Message: "Could not remove this bookmark."}
	}
	return &Notice{Level: NoticeSuccess, Message: "Bookmark removed."}
}

func (s *BookmarkService) IsBookmarked(ctx context.Context, userID, episodeID uint) (bool, error) {
	ok, err := s.bookmarks.Exists(ctx, userID, episodeID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return ok, nil
}

// ListBookmarks returns the user's bookmarks, newest first.
func (s *BookmarkService) ListBookmarks(ctx context.Context, userID uint, page, perPage int) (*Listing[models.EpisodeBookmark], error) {
	req := pagination.NewRequest(page, perPage, pagination.DefaultPerPage)
	rows, total, err := s.bookmarks.ListByUser(ctx, userID, req.Offset(), req.Limit())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return newListing(rows, total, req), nil
}

func logBookmarkFailure(ctx context.Context, msg string, userID, episodeID uint, err error) {
	middleware.Logger.ErrorContext(ctx, msg,
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("episode_id", uint64(episodeID)),
		slog.String("error", err.Error()),
	)
}
