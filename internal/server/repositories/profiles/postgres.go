package profiles

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
	queryCreate = `INSERT INTO profiles (id, user_id, handle, company, website, location, bio, status, githubuser,
		 skills, social, experience, education, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	queryUpdate = `UPDATE profiles SET handle = $2, company = $3, website = $4, location = $5, bio = $6,
		 status = $7, githubuser = $8, skills = $9, social = $10, experience = $11, education = $12
		 WHERE id = $1`

	querySelect = `SELECT p.id, p.user_id, u.name, u.avatar, p.handle, p.company, p.website, p.location, p.bio,
		 p.status, p.githubuser, p.skills, p.social, p.experience, p.education, p.created_at
		 FROM profiles p JOIN users u ON u.id = p.user_id`

	queryGetByUserID = querySelect + ` WHERE p.user_id = $1`
	queryGetByHandle = querySelect + ` WHERE p.handle = $1`
	queryList        = querySelect + ` ORDER BY p.created_at, p.id`

	queryDeleteByUserID = `DELETE FROM profiles WHERE user_id = $1`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// nested holds the JSONB encodings of a profile's nested fields.
type nested struct {
	skills, social, experience, education string
}

func encodeNested(p *models.Profile) (nested, error) {
	var n nested
	for _, f := range []struct {
		dst *string
		v   any
	}{
		{&n.skills, p.Skills},
		{&n.social, p.Social},
		{&n.experience, p.Experience},
		{&n.education, p.Education},
	} {
		b, err := json.Marshal(f.v)
		if err != nil {
			return n, err
		}
		*f.dst = string(b)
	}
	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) error {
	n, err := encodeNested(p)
	if err != nil {
		return fmt.Errorf("encode error: %w", err)
	}

	_, err = r.db.ExecContext(ctx, queryCreate,
		p.ID, p.User.ID, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUser,
		n.skills, n.social, n.experience, n.education, p.CreatedAt)

	return mapWriteError(err)
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Profile) error {
	n, err := encodeNested(p)
	if err != nil {
		return fmt.Errorf("encode error: %w", err)
	}

	res, err := r.db.ExecContext(ctx, queryUpdate,
		p.ID, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUser,
		n.skills, n.social, n.experience, n.education)
	if err != nil {
		return mapWriteError(err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if rows == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := dbx.UniqueViolation(err); ok {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return r.getOne(ctx, queryGetByUserID, userID)
}

func (r *PostgresRepository) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return r.getOne(ctx, queryGetByHandle, handle)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, queryList)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
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

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, queryDeleteByUserID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.Profile, error) {
	p := &models.Profile{}
	var skills, social, experience, education []byte

	err := s.Scan(&p.ID, &p.User.ID, &p.User.Name, &p.User.Avatar, &p.Handle, &p.Company, &p.Website,
		&p.Location, &p.Bio, &p.Status, &p.GitHubUser, &skills, &social, &experience, &education, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		src []byte
		dst any
	}{
		{skills, &p.Skills},
		{social, &p.Social},
		{experience, &p.Experience},
		{education, &p.Education},
	} {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, err
		}
	}

	return normalize(p), nil
}

// normalize replaces nil slices so they encode as empty JSON arrays.
func normalize(p *models.Profile) *models.Profile {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	if p.Education == nil {
		p.Education = []models.Education{}
	}
	return p
}
