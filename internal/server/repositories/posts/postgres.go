package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/dbx"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

const (
	queryCreate = `INSERT INTO posts (id, user_id, text, name, avatar, likes, comments, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	queryUpdate = `UPDATE posts SET text = $2, likes = $3, comments = $4 WHERE id = $1`

	querySelect  = `SELECT id, user_id, text, name, avatar, likes, comments, created_at FROM posts`
	queryGetByID = querySelect + ` WHERE id = $1`
	queryList    = querySelect + ` ORDER BY created_at DESC, id DESC`

	queryDelete         = `DELETE FROM posts WHERE id = $1`
	queryDeleteByUserID = `DELETE FROM posts WHERE user_id = $1`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func encode(p *models.Post) (likes, comments string, err error) {
	l, err := json.Marshal(p.Likes)
	if err != nil {
		return "", "", err
	}
	c, err := json.Marshal(p.Comments)
	if err != nil {
		return "", "", err
	}
	return string(l), string(c), nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Post) error {
	likes, comments, err := encode(normalize(p))
	if err != nil {
		return fmt.Errorf("encode error: %w", err)
	}

	_, err = r.db.ExecContext(ctx, queryCreate,
		p.ID, p.User, p.Text, p.Name, p.Avatar, likes, comments, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Post) error {
	likes, comments, err := encode(normalize(p))
	if err != nil {
		return fmt.Errorf("encode error: %w", err)
	}

	return r.execOne(ctx, queryUpdate, p.ID, p.Text, likes, comments)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, queryGetByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, queryList)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, queryDelete, id)
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, queryDeleteByUserID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	p := &models.Post{}
	var likes, comments []byte

	if err := s.Scan(&p.ID, &p.User, &p.Text, &p.Name, &p.Avatar, &likes, &comments, &p.CreatedAt); err != nil {
		return nil, err
	}

	if len(likes) > 0 {
		if err := json.Unmarshal(likes, &p.Likes); err != nil {
			return nil, err
		}
	}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &p.Comments); err != nil {
			return nil, err
		}
	}

	return normalize(p), nil
}

// normalize replaces nil slices so they encode as empty JSON arrays.
func normalize(p *models.Post) *models.Post {
	if p.Likes == nil {
		p.Likes = []models.Like{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	return p
}
