package auth

import (
	"context"
	"database/sql"
	"time"
)

// UserRow matches the users table shape.
type UserRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	GamesPlayed  int
	TotalScore   int
	ExactHits    int
	Streak       int // consecutive exact hits
}

// Users is the users table repository.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// Create validates input, checks uniqueness, hashes password, and inserts a new user.
func (u *Users) Create(ctx context.Context, username, pw string) (*UserRow, error) {
	username = NormalizeUsername(username)
	if err := ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := HashPassword(pw)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	row := &UserRow{ID: GenID(), Username: username, PasswordHash: h, CreatedAt: now}
	if _, err := u.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		row.ID, row.Username, row.PasswordHash, now.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return row, nil
}

// ByUsername/ByID load a user row or return sql.ErrNoRows if missing.
func (u *Users) ByUsername(ctx context.Context, username string) (*UserRow, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, total_score, exact_hits, streak
	                      FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}
func (u *Users) ByID(ctx context.Context, id string) (*UserRow, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, total_score, exact_hits, streak
	                      FROM users WHERE id=?`, id)
	return scanUser(row)
}

// Exists adapts ByID for the auth middleware.
func (u *Users) Exists(ctx context.Context, id string) bool {
	_, err := u.ByID(ctx, id)
	return err == nil
}

// scanUser converts a *sql.Row into a UserRow.
func scanUser(row *sql.Row) (*UserRow, error) {
	var u UserRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created,
		&u.GamesPlayed, &u.TotalScore, &u.ExactHits, &u.Streak); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// BumpStats records a finished game for userID within tx: one more game,
// score added, and the exact-hit streak extended or reset.
func BumpStats(ctx context.Context, tx *sql.Tx, userID string, score int, exact bool) error {
	var gp, total, hits, streak int
	row := tx.QueryRowContext(ctx, `SELECT games_played, total_score, exact_hits, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &total, &hits, &streak); err != nil {
		return err
	}
	gp++
	total += score
	if exact {
		hits++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, total_score=?, exact_hits=?, streak=? WHERE id=?`,
		gp, total, hits, streak, userID)
	return err
}
