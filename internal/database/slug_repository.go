package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hangiplatform/models"
)

// SlugRepository persists slug to TMDB id resolutions.
type SlugRepository struct {
	db *sql.DB
}

func NewSlugRepository(db *sql.DB) *SlugRepository {
	return &SlugRepository{db: db}
}

// Get returns the stored resolution, or nil if the slug was never resolved.
func (r *SlugRepository) Get(slug string) (*models.SlugResolution, error) {
	var (
		res        models.SlugResolution
		resolvedAt int64
	)
	err := r.db.QueryRow(
		`SELECT slug, kind, tmdb_id, title, resolved_at FROM slug_resolutions WHERE slug = ?`,
		slug,
	).Scan(&res.Slug, &res.Kind, &res.TMDBID, &res.Title, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slug %q: %w", slug, err)
	}
	res.ResolvedAt = time.UnixMilli(resolvedAt).UTC()
	return &res, nil
}

func (r *SlugRepository) Upsert(res models.SlugResolution) error {
	if res.Slug == "" {
		return errors.New("slug is required")
	}
	if res.ResolvedAt.IsZero() {
		res.ResolvedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(`
		INSERT INTO slug_resolutions (slug, kind, tmdb_id, title, resolved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			kind = excluded.kind,
			tmdb_id = excluded.tmdb_id,
			title = excluded.title,
			resolved_at = excluded.resolved_at`,
		res.Slug, res.Kind, res.TMDBID, res.Title, res.ResolvedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert slug %q: %w", res.Slug, err)
	}
	return nil
}
