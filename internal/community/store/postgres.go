package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"strive/internal/community/models"
	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
	txcontext "strive/pkg/platform/tx"
)

// Postgres persists communities in a single table with uuid[] columns for
// the member and post sets. Membership and link mutations are single
// conditional UPDATEs so the precondition and the change cannot be split by
// a racing request.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const communityColumns = "id, name, description, members, posts, created_at, updated_at"

func (s *Postgres) Create(ctx context.Context, community *models.Community) error {
	query := `
		INSERT INTO communities (` + communityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(community.ID),
		community.Name,
		community.Description,
		pq.Array(userIDStrings(community.Members)),
		pq.Array(postIDStrings(community.Posts)),
		community.CreatedAt,
		community.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert community: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, communityID id.CommunityID) (*models.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(communityID))
	community, err := scanCommunity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select community: %w", err)
	}
	return community, nil
}

func (s *Postgres) FindByLinkedPost(ctx context.Context, post id.PostID) (*models.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE $1 = ANY(posts)`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(post))
	community, err := scanCommunity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select community by post: %w", err)
	}
	return community, nil
}

func (s *Postgres) ListAll(ctx context.Context) ([]*models.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query communities: %w", err)
	}
	defer rows.Close()
	return scanCommunities(rows)
}

func (s *Postgres) ListByName(ctx context.Context, name string) ([]*models.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE name = $1 ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("query communities by name: %w", err)
	}
	defer rows.Close()
	return scanCommunities(rows)
}

func (s *Postgres) ListByMember(ctx context.Context, user id.UserID) ([]*models.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE $1 = ANY(members) ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(user))
	if err != nil {
		return nil, fmt.Errorf("query communities by member: %w", err)
	}
	defer rows.Close()
	return scanCommunities(rows)
}

// AddMember appends only when the user is not already present. A zero-row
// update is disambiguated with a follow-up existence probe.
func (s *Postgres) AddMember(ctx context.Context, communityID id.CommunityID, user id.UserID) error {
	query := `
		UPDATE communities
		SET members = array_append(members, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(members))
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(communityID), uuid.UUID(user))
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := s.exists(ctx, communityID)
		if err != nil {
			return err
		}
		if exists {
			return sentinel.ErrConflict
		}
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) RemoveMember(ctx context.Context, communityID id.CommunityID, user id.UserID) error {
	query := `
		UPDATE communities
		SET members = array_remove(members, $2), updated_at = now()
		WHERE id = $1 AND $2 = ANY(members)
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(communityID), uuid.UUID(user))
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) AddPost(ctx context.Context, communityID id.CommunityID, post id.PostID) error {
	query := `
		UPDATE communities
		SET posts = array_append(posts, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(posts))
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(communityID), uuid.UUID(post))
	if err != nil {
		return fmt.Errorf("add post link: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := s.exists(ctx, communityID)
		if err != nil {
			return err
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		// Already linked; linking is idempotent.
	}
	return nil
}

// RemovePost unlinks without requiring the link to exist; only the
// community itself must.
func (s *Postgres) RemovePost(ctx context.Context, communityID id.CommunityID, post id.PostID) error {
	query := `
		UPDATE communities
		SET posts = array_remove(posts, $2), updated_at = now()
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(communityID), uuid.UUID(post))
	if err != nil {
		return fmt.Errorf("remove post link: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) exists(ctx context.Context, communityID id.CommunityID) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM communities WHERE id = $1)`, uuid.UUID(communityID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("community exists: %w", err)
	}
	return exists, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommunity(row rowScanner) (*models.Community, error) {
	var (
		community   models.Community
		communityID uuid.UUID
		members     pq.StringArray
		posts       pq.StringArray
	)
	err := row.Scan(
		&communityID,
		&community.Name,
		&community.Description,
		&members,
		&posts,
		&community.CreatedAt,
		&community.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	community.ID = id.CommunityID(communityID)
	community.Members, err = parseUserIDs(members)
	if err != nil {
		return nil, err
	}
	community.Posts, err = parsePostIDs(posts)
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func scanCommunities(rows *sql.Rows) ([]*models.Community, error) {
	var communities []*models.Community
	for rows.Next() {
		community, err := scanCommunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan community: %w", err)
		}
		communities = append(communities, community)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate communities: %w", err)
	}
	return communities, nil
}

func userIDStrings(users []id.UserID) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.String()
	}
	return out
}

func postIDStrings(posts []id.PostID) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.String()
	}
	return out
}

func parseUserIDs(raw []string) ([]id.UserID, error) {
	out := make([]id.UserID, len(raw))
	for i, s := range raw {
		parsed, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse member id: %w", err)
		}
		out[i] = id.UserID(parsed)
	}
	return out, nil
}

func parsePostIDs(raw []string) ([]id.PostID, error) {
	out := make([]id.PostID, len(raw))
	for i, s := range raw {
		parsed, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse post id: %w", err)
		}
		out[i] = id.PostID(parsed)
	}
	return out, nil
}
