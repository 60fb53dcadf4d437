package repository

import (
	"context"
	"fmt"

	"cinetheque/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository records forum votes. A user holds at most one vote per
// target across both directions.
type VoteRepository interface {
	Toggle(ctx context.Context, userID uint, target models.VoteTarget, targetID uint, direction models.VoteDirection) (models.VoteState, error)
	State(ctx context.Context, userID uint, target models.VoteTarget, targetID uint) (models.VoteState, error)
	UserVotes(ctx context.Context, userID uint, target models.VoteTarget, targetIDs []uint) (map[uint]models.VoteDirection, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// ledger names the tables behind one vote target.
type ledger struct {
	upTable     string
	downTable   string
	column      string
	targetTable string
}

func ledgerFor(target models.VoteTarget) (ledger, error) {
	switch target {
	case models.VoteTargetTopic:
		return ledger{"upvote_forum_topics", "downvote_forum_topics", "topic_id", "forum_topics"}, nil
	case models.VoteTargetPost:
		return ledger{"upvote_forum_posts", "downvote_forum_posts", "post_id", "forum_posts"}, nil
	}
	return ledger{}, fmt.Errorf("unknown vote target %q", target)
}

func (l ledger) table(direction models.VoteDirection) string {
	if direction == models.VoteDown {
		return l.downTable
	}
	return l.upTable
}

func voteRow(target models.VoteTarget, direction models.VoteDirection, userID, targetID uint) interface{} {
	switch {
	case target == models.VoteTargetTopic && direction == models.VoteUp:
		return &models.UpvoteForumTopic{UserID: userID, TopicID: targetID}
	case target == models.VoteTargetTopic:
		return &models.DownvoteForumTopic{UserID: userID, TopicID: targetID}
	case direction == models.VoteUp:
		return &models.UpvoteForumPost{UserID: userID, PostID: targetID}
	default:
		return &models.DownvoteForumPost{UserID: userID, PostID: targetID}
	}
}

func currentVote(tx *gorm.DB, l ledger, userID, targetID uint) (models.VoteDirection, error) {
	for _, direction := range []models.VoteDirection{models.VoteUp, models.VoteDown} {
		var n int64
		err := tx.Table(l.table(direction)).
			Where("user_id = ? AND "+l.column+" = ?", userID, targetID).
			Count(&n).Error
		if err != nil {
			return models.VoteNone, err
		}
		if n > 0 {
			return direction, nil
		}
	}
	return models.VoteNone, nil
}

// lockTarget takes a row lock on the voted target so concurrent votes by the
// same user on it run one after the other.
func lockTarget(tx *gorm.DB, l ledger, targetID uint) error {
	var row struct{ ID uint }
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Table(l.targetTable).Select("id").Where("id = ?", targetID).Take(&row).Error
}

func readCounts(tx *gorm.DB, l ledger, targetID uint) (up int, down int, err error) {
	var row struct {
		UpvoteCount   int
		DownvoteCount int
	}
	res := tx.Table(l.targetTable).Select("upvote_count", "downvote_count").Where("id = ?", targetID).Take(&row)
	if res.Error != nil {
		return 0, 0, res.Error
	}
	return row.UpvoteCount, row.DownvoteCount, nil
}

func recompute(tx *gorm.DB, target models.VoteTarget, targetID uint) error {
	if target == models.VoteTargetTopic {
		return RecomputeTopicCounters(tx, targetID)
	}
	return RecomputePostCounters(tx, targetID)
}

// Toggle applies a vote: the same direction again removes it, the opposite
// direction replaces it. The target's counters are recomputed in the same
// transaction and returned with the caller's resulting vote.
func (r *voteRepository) Toggle(ctx context.Context, userID uint, target models.VoteTarget, targetID uint, direction models.VoteDirection) (models.VoteState, error) {
	state := models.VoteState{Target: target, TargetID: targetID}
	l, err := ledgerFor(target)
	if err != nil {
		return state, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTarget(tx, l, targetID); err != nil {
			return err
		}
		current, err := currentVote(tx, l, userID, targetID)
		if err != nil {
			return err
		}

		if current != models.VoteNone {
			if err := tx.Where("user_id = ? AND "+l.column+" = ?", userID, targetID).
				Delete(voteRow(target, current, userID, targetID)).Error; err != nil {
				return err
			}
		}

		switch current {
		case direction:
			state.Action = models.VoteActionRemoved
			state.UserVote = models.VoteNone
		default:
			if err := tx.Create(voteRow(target, direction, userID, targetID)).Error; err != nil {
				return wrapWriteError(err, "vote")
			}
			state.Action = models.VoteActionAdded
			if current != models.VoteNone {
				state.Action = models.VoteActionSwitched
			}
			state.UserVote = direction
		}

		if err := recompute(tx, target, targetID); err != nil {
			return err
		}
		state.Upvotes, state.Downvotes, err = readCounts(tx, l, targetID)
		return err
	})
	return state, err
}

// State reports the target's totals and the caller's current vote.
func (r *voteRepository) State(ctx context.Context, userID uint, target models.VoteTarget, targetID uint) (models.VoteState, error) {
	state := models.VoteState{Target: target, TargetID: targetID}
	l, err := ledgerFor(target)
	if err != nil {
		return state, err
	}

	db := r.db.WithContext(ctx)
	state.Upvotes, state.Downvotes, err = readCounts(db, l, targetID)
	if err != nil {
		return state, err
	}
	if userID == 0 {
		return state, nil
	}
	state.UserVote, err = currentVote(db, l, userID, targetID)
	return state, err
}

// UserVotes returns the caller's votes on the given targets, keyed by target ID.
// Targets without a vote are absent from the map.
func (r *voteRepository) UserVotes(ctx context.Context, userID uint, target models.VoteTarget, targetIDs []uint) (map[uint]models.VoteDirection, error) {
	votes := make(map[uint]models.VoteDirection)
	if userID == 0 || len(targetIDs) == 0 {
		return votes, nil
	}
	l, err := ledgerFor(target)
	if err != nil {
		return nil, err
	}

	for _, direction := range []models.VoteDirection{models.VoteUp, models.VoteDown} {
		var ids []uint
		err := r.db.WithContext(ctx).Table(l.table(direction)).
			Where("user_id = ? AND "+l.column+" IN ?", userID, targetIDs).
			Pluck(l.column, &ids).Error
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			votes[id] = direction
		}
	}
	return votes, nil
}
