//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"strive/internal/community/models"
	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
	"strive/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *Postgres
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "communities"))
}

func (s *PostgresStoreSuite) newCommunity(creator id.UserID) *models.Community {
	community, err := models.NewCommunity(id.NewCommunityID(), "striders", "", creator, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, community))
	return community
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	creator := id.NewUserID()
	community := s.newCommunity(creator)

	found, err := s.store.FindByID(s.ctx, community.ID)
	s.Require().NoError(err)
	s.Equal(community.ID, found.ID)
	s.Equal([]id.UserID{creator}, found.Members)
	s.Empty(found.Posts)
}

func (s *PostgresStoreSuite) TestAddMemberConditional() {
	community := s.newCommunity(id.NewUserID())
	user := id.NewUserID()

	s.Require().NoError(s.store.AddMember(s.ctx, community.ID, user))

	// The array_append guard rejects a second insert of the same member.
	s.ErrorIs(s.store.AddMember(s.ctx, community.ID, user), sentinel.ErrConflict)

	s.ErrorIs(s.store.AddMember(s.ctx, id.NewCommunityID(), user), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestRemoveMemberConditional() {
	creator := id.NewUserID()
	community := s.newCommunity(creator)

	s.Require().NoError(s.store.RemoveMember(s.ctx, community.ID, creator))
	s.ErrorIs(s.store.RemoveMember(s.ctx, community.ID, creator), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestPostLinkage() {
	community := s.newCommunity(id.NewUserID())
	post := id.NewPostID()

	s.Require().NoError(s.store.AddPost(s.ctx, community.ID, post))

	found, err := s.store.FindByLinkedPost(s.ctx, post)
	s.Require().NoError(err)
	s.Equal(community.ID, found.ID)

	// Relinking the same post is idempotent.
	s.Require().NoError(s.store.AddPost(s.ctx, community.ID, post))
	found, err = s.store.FindByLinkedPost(s.ctx, post)
	s.Require().NoError(err)
	s.Len(found.Posts, 1)

	s.Require().NoError(s.store.RemovePost(s.ctx, community.ID, post))
	_, err = s.store.FindByLinkedPost(s.ctx, post)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// Removing an absent link is a no-op.
	s.Require().NoError(s.store.RemovePost(s.ctx, community.ID, post))
}

func (s *PostgresStoreSuite) TestListByMemberAndName() {
	alice := id.NewUserID()
	mine := s.newCommunity(alice)
	s.newCommunity(id.NewUserID())

	byMember, err := s.store.ListByMember(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(byMember, 1)
	s.Equal(mine.ID, byMember[0].ID)

	byName, err := s.store.ListByName(s.ctx, "striders")
	s.Require().NoError(err)
	s.Len(byName, 2)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}
