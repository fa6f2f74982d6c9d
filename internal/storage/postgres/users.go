package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskboard/internal/models"
)

const userColumns = `
id,
email,
name,
password,
auth_provider,
role,
profile_pic,
address,
contact,
city,
state,
pin_code,
created_at,
updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	user := new(models.User)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Password,
		&user.AuthProvider,
		&user.Role,
		&user.ProfilePic,
		&user.Address,
		&user.Contact,
		&user.City,
		&user.State,
		&user.PinCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   email,
                   name,
                   password,
                   auth_provider,
                   role,
                   profile_pic,
                   address,
                   contact,
                   city,
                   state,
                   pin_code,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`
	_, err := db.pool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Email,
		user.Name,
		user.Password,
		user.AuthProvider,
		user.Role,
		user.ProfilePic,
		user.Address,
		user.Contact,
		user.City,
		user.State,
		user.PinCode,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return translate(err)
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `SELECT` + userColumns + `FROM users WHERE id = $1`
	return scanUser(db.pool.QueryRow(ctx, selectUserByIDQuery, id))
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `SELECT` + userColumns + `FROM users WHERE lower(email) = lower($1)`
	return scanUser(db.pool.QueryRow(ctx, selectUserByEmailQuery, email))
}

func (db *DB) ListUsers(ctx context.Context, excludeRole models.Role) ([]*models.User, error) {
	const selectUsersQuery = `SELECT` + userColumns + `
FROM users
WHERE role <> $1
ORDER BY created_at DESC
`
	rows, err := db.pool.Query(ctx, selectUsersQuery, excludeRole)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *DB) CountUsers(ctx context.Context, excludeRole models.Role) (int64, error) {
	const countUsersQuery = `
SELECT count(*)
FROM users
WHERE role <> $1
`
	var n int64
	err := db.pool.QueryRow(ctx, countUsersQuery, excludeRole).Scan(&n)
	return n, err
}

func (db *DB) UpdateUserProfile(ctx context.Context, user *models.User) error {
	const updateUserProfileQuery = `
UPDATE users
SET name = $1,
    address = $2,
    contact = $3,
    city = $4,
    state = $5,
    pin_code = $6,
    profile_pic = $7,
    updated_at = $8
WHERE id = $9
`
	tag, err := db.pool.Exec(
		ctx,
		updateUserProfileQuery,
		user.Name,
		user.Address,
		user.Contact,
		user.City,
		user.State,
		user.PinCode,
		user.ProfilePic,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return translate(err)
	}
	return expectAffected(tag)
}

func (db *DB) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	const updateUserRoleQuery = `
UPDATE users
SET role = $1,
    updated_at = now()
WHERE id = $2
`
	tag, err := db.pool.Exec(ctx, updateUserRoleQuery, role, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(tag)
}

func (db *DB) DeleteUser(ctx context.Context, id string) error {
	const deleteUserQuery = `
DELETE FROM users
WHERE id = $1
`
	tag, err := db.pool.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(tag)
}
