package service

import (
	"context"
	"errors"
	"testing"

	"cinetheque/internal/models"
	"cinetheque/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	listIDsFn       func(context.Context) ([]uint, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) ListIDs(ctx context.Context) ([]uint, error) {
	return s.listIDsFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		listIDsFn:       func(_ context.Context) ([]uint, error) { return nil, nil },
	}
}

// topicRepoStub is a stub for repository.TopicRepository.
type topicRepoStub struct {
	listFn      func(context.Context, repository.TopicQuery) ([]models.ForumTopic, int64, error)
	getByIDFn   func(context.Context, uint) (*models.ForumTopic, error)
	getBySlugFn func(context.Context, string) (*models.ForumTopic, error)
	incViewFn   func(context.Context, uint) error
	createFn    func(context.Context, *models.ForumTopic) error
	updateFn    func(context.Context, *models.ForumTopic, []models.ForumTag, bool) error
	deleteFn    func(context.Context, *models.ForumTopic) error
}

func (s *topicRepoStub) List(ctx context.Context, q repository.TopicQuery) ([]models.ForumTopic, int64, error) {
	return s.listFn(ctx, q)
}
func (s *topicRepoStub) GetByID(ctx context.Context, id uint) (*models.ForumTopic, error) {
	return s.getByIDFn(ctx, id)
}
func (s *topicRepoStub) GetBySlug(ctx context.Context, slug string) (*models.ForumTopic, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *topicRepoStub) IncrementViewCount(ctx context.Context, id uint) error {
	return s.incViewFn(ctx, id)
}
func (s *topicRepoStub) Create(ctx context.Context, topic *models.ForumTopic) error {
	return s.createFn(ctx, topic)
}
func (s *topicRepoStub) Update(ctx context.Context, topic *models.ForumTopic, tags []models.ForumTag, replace bool) error {
	return s.updateFn(ctx, topic, tags, replace)
}
func (s *topicRepoStub) Delete(ctx context.Context, topic *models.ForumTopic) error {
	return s.deleteFn(ctx, topic)
}

func noopTopicRepo() *topicRepoStub {
	return &topicRepoStub{
		listFn: func(_ context.Context, _ repository.TopicQuery) ([]models.ForumTopic, int64, error) {
			return nil, 0, nil
		},
		getByIDFn:   func(_ context.Context, id uint) (*models.ForumTopic, error) { return &models.ForumTopic{ID: id}, nil },
		getBySlugFn: func(_ context.Context, _ string) (*models.ForumTopic, error) { return nil, gorm.ErrRecordNotFound },
		incViewFn:   func(_ context.Context, _ uint) error { return nil },
		createFn:    func(_ context.Context, _ *models.ForumTopic) error { return nil },
		updateFn:    func(_ context.Context, _ *models.ForumTopic, _ []models.ForumTag, _ bool) error { return nil },
		deleteFn:    func(_ context.Context, _ *models.ForumTopic) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	listByTopicFn  func(context.Context, uint, int, int) ([]models.ForumPost, int64, error)
	getByIDFn      func(context.Context, uint) (*models.ForumPost, error)
	createFn       func(context.Context, *models.ForumPost) error
	updateFn       func(context.Context, *models.ForumPost) error
	deleteFn       func(context.Context, *models.ForumPost) error
	listRepliesFn  func(context.Context, uint, int, int) ([]models.ForumReply, int64, error)
	getReplyByIDFn func(context.Context, uint) (*models.ForumReply, error)
	createReplyFn  func(context.Context, *models.ForumReply) error
	deleteReplyFn  func(context.Context, *models.ForumReply) error
}

func (s *postRepoStub) ListByTopic(ctx context.Context, topicID uint, offset, limit int) ([]models.ForumPost, int64, error) {
	return s.listByTopicFn(ctx, topicID, offset, limit)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.ForumPost, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.ForumPost) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.ForumPost) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, post *models.ForumPost) error {
	return s.deleteFn(ctx, post)
}
func (s *postRepoStub) ListReplies(ctx context.Context, postID uint, offset, limit int) ([]models.ForumReply, int64, error) {
	return s.listRepliesFn(ctx, postID, offset, limit)
}
func (s *postRepoStub) GetReplyByID(ctx context.Context, id uint) (*models.ForumReply, error) {
	return s.getReplyByIDFn(ctx, id)
}
func (s *postRepoStub) CreateReply(ctx context.Context, reply *models.ForumReply) error {
	return s.createReplyFn(ctx, reply)
}
func (s *postRepoStub) DeleteReply(ctx context.Context, reply *models.ForumReply) error {
	return s.deleteReplyFn(ctx, reply)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		listByTopicFn: func(_ context.Context, _ uint, _, _ int) ([]models.ForumPost, int64, error) {
			return nil, 0, nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.ForumPost, error) {
			return &models.ForumPost{ID: id, Topic: &models.ForumTopic{}}, nil
		},
		createFn: func(_ context.Context, _ *models.ForumPost) error { return nil },
		updateFn: func(_ context.Context, _ *models.ForumPost) error { return nil },
		deleteFn: func(_ context.Context, _ *models.ForumPost) error { return nil },
		listRepliesFn: func(_ context.Context, _ uint, _, _ int) ([]models.ForumReply, int64, error) {
			return nil, 0, nil
		},
		getReplyByIDFn: func(_ context.Context, id uint) (*models.ForumReply, error) { return &models.ForumReply{ID: id}, nil },
		createReplyFn:  func(_ context.Context, _ *models.ForumReply) error { return nil },
		deleteReplyFn:  func(_ context.Context, _ *models.ForumReply) error { return nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	toggleFn    func(context.Context, uint, models.VoteTarget, uint, models.VoteDirection) (models.VoteState, error)
	stateFn     func(context.Context, uint, models.VoteTarget, uint) (models.VoteState, error)
	userVotesFn func(context.Context, uint, models.VoteTarget, []uint) (map[uint]models.VoteDirection, error)
}

func (s *voteRepoStub) Toggle(ctx context.Context, userID uint, target models.VoteTarget, targetID uint, direction models.VoteDirection) (models.VoteState, error) {
	return s.toggleFn(ctx, userID, target, targetID, direction)
}
func (s *voteRepoStub) State(ctx context.Context, userID uint, target models.VoteTarget, targetID uint) (models.VoteState, error) {
	return s.stateFn(ctx, userID, target, targetID)
}
func (s *voteRepoStub) UserVotes(ctx context.Context, userID uint, target models.VoteTarget, ids []uint) (map[uint]models.VoteDirection, error) {
	return s.userVotesFn(ctx, userID, target, ids)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		toggleFn: func(_ context.Context, _ uint, target models.VoteTarget, id uint, d models.VoteDirection) (models.VoteState, error) {
			return models.VoteState{Target: target, TargetID: id, UserVote: d, Action: models.VoteActionAdded}, nil
		},
		stateFn: func(_ context.Context, _ uint, target models.VoteTarget, id uint) (models.VoteState, error) {
			return models.VoteState{Target: target, TargetID: id}, nil
		},
		userVotesFn: func(_ context.Context, _ uint, _ models.VoteTarget, _ []uint) (map[uint]models.VoteDirection, error) {
			return map[uint]models.VoteDirection{}, nil
		},
	}
}

// bookmarkRepoStub is a stub for repository.BookmarkRepository.
type bookmarkRepoStub struct {
	addFn        func(context.Context, uint, uint) error
	removeFn     func(context.Context, uint, uint) error
	existsFn     func(context.Context, uint, uint) (bool, error)
	listByUserFn func(context.Context, uint, int, int) ([]models.EpisodeBookmark, int64, error)
}

func (s *bookmarkRepoStub) Add(ctx context.Context, userID, episodeID uint) error {
	return s.addFn(ctx, userID, episodeID)
}
func (s *bookmarkRepoStub) Remove(ctx context.Context, userID, episodeID uint) error {
	return s.removeFn(ctx, userID, episodeID)
}
func (s *bookmarkRepoStub) Exists(ctx context.Context, userID, episodeID uint) (bool, error) {
	return s.existsFn(ctx, userID, episodeID)
}
func (s *bookmarkRepoStub) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.EpisodeBookmark, int64, error) {
	return s.listByUserFn(ctx, userID, offset, limit)
}

func noopBookmarkRepo() *bookmarkRepoStub {
	return &bookmarkRepoStub{
		addFn:    func(_ context.Context, _, _ uint) error { return nil },
		removeFn: func(_ context.Context, _, _ uint) error { return nil },
		existsFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listByUserFn: func(_ context.Context, _ uint, _, _ int) ([]models.EpisodeBookmark, int64, error) {
			return nil, 0, nil
		},
	}
}

// statsRepoStub is a stub for repository.StatsRepository.
type statsRepoStub struct {
	computeFn func(context.Context, uint) (*models.ForumUserStats, error)
	saveFn    func(context.Context, *models.ForumUserStats) error
	getFn     func(context.Context, uint) (*models.ForumUserStats, error)
	topFn     func(context.Context, int) ([]models.ForumUserStats, error)
}

func (s *statsRepoStub) Compute(ctx context.Context, userID uint) (*models.ForumUserStats, error) {
	return s.computeFn(ctx, userID)
}
func (s *statsRepoStub) Save(ctx context.Context, stats *models.ForumUserStats) error {
	return s.saveFn(ctx, stats)
}
func (s *statsRepoStub) Get(ctx context.Context, userID uint) (*models.ForumUserStats, error) {
	return s.getFn(ctx, userID)
}
func (s *statsRepoStub) Top(ctx context.Context, limit int) ([]models.ForumUserStats, error) {
	return s.topFn(ctx, limit)
}

func noopStatsRepo() *statsRepoStub {
	return &statsRepoStub{
		computeFn: func(_ context.Context, id uint) (*models.ForumUserStats, error) {
			return &models.ForumUserStats{UserID: id}, nil
		},
		saveFn: func(_ context.Context, _ *models.ForumUserStats) error { return nil },
		getFn: func(_ context.Context, id uint) (*models.ForumUserStats, error) {
			return &models.ForumUserStats{UserID: id}, nil
		},
		topFn: func(_ context.Context, _ int) ([]models.ForumUserStats, error) { return nil, nil },
	}
}

// eventRecorder captures published forum events.
type eventRecorder struct {
	events []models.ForumEvent
	err    error
}

func (r *eventRecorder) PublishForumEvent(_ context.Context, event models.ForumEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}
