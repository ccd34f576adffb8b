package workflow

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"strive/internal/comment"
	communitymodels "strive/internal/community/models"
	goalmodels "strive/internal/goal/models"
	goalservice "strive/internal/goal/service"
	"strive/internal/post"
	id "strive/pkg/domain"
	dErrors "strive/pkg/domain-errors"
)

// Communities is the slice of the community service the workflows need.
type Communities interface {
	AssertMember(ctx context.Context, communityID id.CommunityID, user id.UserID) error
	FindByLinkedPost(ctx context.Context, postID id.PostID) (*communitymodels.Community, error)
	AddLinkedPost(ctx context.Context, communityID id.CommunityID, postID id.PostID) error
	RemoveLinkedPost(ctx context.Context, communityID id.CommunityID, postID id.PostID) error
}

// Posts is the slice of the post service the workflows need.
type Posts interface {
	Create(ctx context.Context, author id.UserID, content string) (*post.Post, error)
	Delete(ctx context.Context, postID id.PostID) error
	AssertAuthor(ctx context.Context, postID id.PostID, user id.UserID) error
	AssertExists(ctx context.Context, postID id.PostID) error
}

// Comments is the slice of the comment service the workflows need.
type Comments interface {
	Create(ctx context.Context, author id.UserID, target id.PostID, content string) (*comment.Comment, error)
}

// Goals is the slice of the goal service the workflows need.
type Goals interface {
	Create(ctx context.Context, owner goalmodels.Owner, name, unit string, amount float64, targetDate time.Time) (*goalmodels.Goal, error)
	Get(ctx context.Context, goalID id.GoalID) (*goalmodels.Goal, error)
	Update(ctx context.Context, goalID id.GoalID, req goalservice.UpdateRequest) (*goalmodels.Goal, error)
	AddProgress(ctx context.Context, goalID id.GoalID, delta float64) (*goalmodels.Goal, error)
	Delete(ctx context.Context, goalID id.GoalID) error
}

// Service composes single-concept operations into multi-concept workflows.
// Each workflow checks its precondition first, then performs its writes
// inside the transaction runner; compensating actions cover the memory
// composition, where there is no rollback.
type Service struct {
	communities Communities
	posts       Posts
	comments    Comments
	goals       Goals
	tx          Tx
	logger      *slog.Logger
	tracer      trace.Tracer
}

func New(communities Communities, posts Posts, comments Comments, goals Goals, tx Tx, logger *slog.Logger) *Service {
	return &Service{
		communities: communities,
		posts:       posts,
		comments:    comments,
		goals:       goals,
		tx:          tx,
		logger:      logger,
		tracer:      otel.Tracer("strive/workflow"),
	}
}

// CreatePostInCommunity publishes a post into a community. Only members may
// post. If linking fails after the post was created, the post is deleted so
// no unlinked post survives the workflow.
func (s *Service) CreatePostInCommunity(ctx context.Context, communityID id.CommunityID, author id.UserID, content string) (*post.Post, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.CreatePostInCommunity")
	defer span.End()

	if err := s.communities.AssertMember(ctx, communityID, author); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var created *post.Post
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.posts.Create(ctx, author, content)
		if err != nil {
			return err
		}
		if err := s.communities.AddLinkedPost(ctx, communityID, p.ID); err != nil {
			if delErr := s.posts.Delete(ctx, p.ID); delErr != nil {
				s.logger.ErrorContext(ctx, "failed to compensate post creation",
					"post_id", p.ID.String(),
					"error", delErr,
				)
			}
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return created, nil
}

// DeletePost removes a post and its community link. The unlink happens
// first: a failure between the two steps leaves an unlinked but readable
// post, never a dangling reference. If the delete itself fails, the link is
// restored.
func (s *Service) DeletePost(ctx context.Context, postID id.PostID, actor id.UserID) error {
	ctx, span := s.tracer.Start(ctx, "workflow.DeletePost")
	defer span.End()

	if err := s.posts.AssertAuthor(ctx, postID, actor); err != nil {
		span.RecordError(err)
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var owning *communitymodels.Community
		community, err := s.communities.FindByLinkedPost(ctx, postID)
		switch {
		case err == nil:
			owning = community
		case dErrors.HasCode(err, dErrors.CodeNotFound):
			// Post was never linked or already unlinked.
		default:
			return err
		}

		if owning != nil {
			if err := s.communities.RemoveLinkedPost(ctx, owning.ID, postID); err != nil {
				return err
			}
		}
		if err := s.posts.Delete(ctx, postID); err != nil {
			if owning != nil {
				if linkErr := s.communities.AddLinkedPost(ctx, owning.ID, postID); linkErr != nil {
					s.logger.ErrorContext(ctx, "failed to compensate post unlink",
						"post_id", postID.String(),
						"community_id", owning.ID.String(),
						"error", linkErr,
					)
				}
			}
			return err
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// CreateComment writes a comment after confirming the target post exists.
// The existence check is a point-in-time precondition: deleting the post
// afterwards orphans the comment, which stays readable.
func (s *Service) CreateComment(ctx context.Context, target id.PostID, author id.UserID, content string) (*comment.Comment, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.CreateComment")
	defer span.End()

	if err := s.posts.AssertExists(ctx, target); err != nil {
		span.RecordError(err)
		return nil, err
	}
	created, err := s.comments.Create(ctx, author, target, content)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return created, nil
}

// CreateCommunityGoal creates a goal owned by a community. Only members may
// do so.
func (s *Service) CreateCommunityGoal(ctx context.Context, communityID id.CommunityID, actor id.UserID, name, unit string, amount float64, targetDate time.Time) (*goalmodels.Goal, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.CreateCommunityGoal")
	defer span.End()

	if err := s.communities.AssertMember(ctx, communityID, actor); err != nil {
		span.RecordError(err)
		return nil, err
	}
	goal, err := s.goals.Create(ctx, goalmodels.CommunityOwner(communityID), name, unit, amount, targetDate)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return goal, nil
}

// UpdateCommunityGoal edits a community-owned goal on behalf of a member.
func (s *Service) UpdateCommunityGoal(ctx context.Context, goalID id.GoalID, actor id.UserID, req goalservice.UpdateRequest) (*goalmodels.Goal, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.UpdateCommunityGoal")
	defer span.End()

	if err := s.assertCommunityGoalMember(ctx, goalID, actor); err != nil {
		span.RecordError(err)
		return nil, err
	}
	goal, err := s.goals.Update(ctx, goalID, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return goal, nil
}

// AddCommunityGoalProgress records progress toward a community-owned goal
// on behalf of a member.
func (s *Service) AddCommunityGoalProgress(ctx context.Context, goalID id.GoalID, actor id.UserID, delta float64) (*goalmodels.Goal, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.AddCommunityGoalProgress")
	defer span.End()

	if err := s.assertCommunityGoalMember(ctx, goalID, actor); err != nil {
		span.RecordError(err)
		return nil, err
	}
	goal, err := s.goals.AddProgress(ctx, goalID, delta)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return goal, nil
}

// DeleteCommunityGoal removes a community-owned goal on behalf of a member.
func (s *Service) DeleteCommunityGoal(ctx context.Context, goalID id.GoalID, actor id.UserID) error {
	ctx, span := s.tracer.Start(ctx, "workflow.DeleteCommunityGoal")
	defer span.End()

	if err := s.assertCommunityGoalMember(ctx, goalID, actor); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.goals.Delete(ctx, goalID); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// assertCommunityGoalMember resolves the goal's owning community and checks
// that actor is a member.
func (s *Service) assertCommunityGoalMember(ctx context.Context, goalID id.GoalID, actor id.UserID) error {
	goal, err := s.goals.Get(ctx, goalID)
	if err != nil {
		return err
	}
	if goal.Owner.Kind != goalmodels.OwnerCommunity {
		return dErrors.New(dErrors.CodeNotAllowed, "goal is not owned by a community")
	}
	return s.communities.AssertMember(ctx, id.CommunityID(goal.Owner.ID), actor)
}
