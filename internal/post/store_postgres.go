package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "strive/pkg/domain"
	"strive/pkg/platform/sentinel"
	txcontext "strive/pkg/platform/tx"
)

// PostgresStore persists posts and honors a context-carried transaction so
// the posting workflow can write posts and community links atomically.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const postColumns = "id, author, content, created_at, updated_at"

func (s *PostgresStore) Create(ctx context.Context, post *Post) error {
	query := `INSERT INTO posts (` + postColumns + `) VALUES ($1, $2, $3, $4, $5)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(post.ID),
		uuid.UUID(post.Author),
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, postID id.PostID) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(postID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select post: %w", err)
	}
	return post, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (s *PostgresStore) ListByAuthor(ctx context.Context, author id.UserID) ([]*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author = $1 ORDER BY created_at DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(author))
	if err != nil {
		return nil, fmt.Errorf("query posts by author: %w", err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (s *PostgresStore) Update(ctx context.Context, post *Post) error {
	query := `UPDATE posts SET content = $2, updated_at = $3 WHERE id = $1`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(post.ID),
		post.Content,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, postID id.PostID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, uuid.UUID(postID))
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireRow(res)
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

func scanPost(row rowScanner) (*Post, error) {
	var (
		post   Post
		postID uuid.UUID
		author uuid.UUID
	)
	err := row.Scan(&postID, &author, &post.Content, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.ID = id.PostID(postID)
	post.Author = id.UserID(author)
	return &post, nil
}

func scanPosts(rows *sql.Rows) ([]*Post, error) {
	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}
