package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"articlehub.org/internal/articles"
)

// Store is the shared PostgreSQL handle. It implements articles.Store; the
// auth user store wraps the same *sql.DB via DB().
type Store struct {
	db *sql.DB
}

var _ articles.Store = (*Store)(nil)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle (tests use sqlmock here).
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) List(ctx context.Context) ([]articles.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		select a.id, a.title, a.excerpt, a.slug, a.published, a.created_at, a.updated_at,
		       a.author_id, u.name, u.email
		from articles a
		join users u on u.id = a.author_id
		order by a.created_at desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []articles.Article
	for rows.Next() {
		var (
			a       articles.Article
			excerpt sql.NullString
			name    sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Title, &excerpt, &a.Slug, &a.Published,
			&a.CreatedAt, &a.UpdatedAt, &a.AuthorID, &name, &a.AuthorEmail); err != nil {
			return nil, err
		}
		a.Excerpt = excerpt.String
		a.AuthorName = name.String
		res = append(res, a)
	}
	return res, rows.Err()
}

func (s *Store) Create(ctx context.Context, a *articles.Article) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	err := s.db.QueryRowContext(ctx, `
		insert into articles(id, title, excerpt, content, slug, published, author_id)
		values ($1,$2,$3,$4,$5,$6,$7)
		returning created_at, updated_at
	`, a.ID, a.Title, a.Excerpt, a.Content, a.Slug, a.Published, a.AuthorID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return articles.ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *Store) FindBySlug(ctx context.Context, slug string) (*articles.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		select a.id, a.title, a.excerpt, a.content, a.slug, a.published, a.created_at, a.updated_at,
		       a.author_id, u.name, u.email
		from articles a
		join users u on u.id = a.author_id
		where a.slug = $1
	`, slug)
	var (
		a       articles.Article
		excerpt sql.NullString
		name    sql.NullString
	)
	err := row.Scan(&a.ID, &a.Title, &excerpt, &a.Content, &a.Slug, &a.Published,
		&a.CreatedAt, &a.UpdatedAt, &a.AuthorID, &name, &a.AuthorEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, articles.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Excerpt = excerpt.String
	a.AuthorName = name.String
	return &a, nil
}

func (s *Store) SetPublished(ctx context.Context, id string, published bool) error {
	res, err := s.db.ExecContext(ctx,
		`update articles set published=$2, updated_at=now() where id=$1`, id, published)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return articles.ErrNotFound
	}
	return nil
}
