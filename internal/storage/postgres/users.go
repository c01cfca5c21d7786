package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/princekumarofficial/video-service/internal/storage"
	"github.com/princekumarofficial/video-service/internal/types/users"
)

func (p *Postgres) CreateUser(ctx context.Context, user users.User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `
	INSERT INTO users (id, username, email, password, avatar)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`

	var userID string
	err := p.Db.QueryRowContext(ctx, query, user.ID, user.Username, user.Email, user.Password, user.Avatar).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", storage.ErrDuplicate
		}
		return "", err
	}

	return userID, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	var user users.User
	query := `
	SELECT id, username, email, password, avatar, created_at FROM users WHERE LOWER(email) = LOWER($1)
	`

	err := p.Db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, storage.ErrNotFound
	}
	if err != nil {
		return users.User{}, err
	}

	return user, nil
}
