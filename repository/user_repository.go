package repository

import (
	"context"
	"errors"
	"fmt"

	"heinzbottle/database"
	"heinzbottle/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, discord_id, minecraft_uuid, enrolled_at, signature_color,
	highest_rank, treehard_level, honorary_quest, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a user repository bound to a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var highestRank, treehard int16
	err := row.Scan(
		&user.ID,
		&user.DiscordID,
		&user.MinecraftUUID,
		&user.EnrolledAt,
		&user.SignatureColor,
		&highestRank,
		&treehard,
		&user.Standing.HonoraryQuest,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Standing.HighestRank = models.Rank(highestRank)
	user.Standing.Treehard = models.TreehardLevel(treehard)
	return &user, nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	user, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// GetByID retrieves a user by database ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.getOne(ctx, "id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// GetByDiscordID retrieves a user by their Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	user, err := r.getOne(ctx, "discord_id = $1", discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}
	return user, nil
}

// GetByMinecraftUUID retrieves a user by their undashed Minecraft UUID
func (r *UserRepository) GetByMinecraftUUID(ctx context.Context, uuid string) (*models.User, error) {
	user, err := r.getOne(ctx, "minecraft_uuid = $1", uuid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by minecraft UUID %s: %w", uuid, err)
	}
	return user, nil
}

// GetAll returns every enrolled user ordered by ID
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Create enrolls a new user
func (r *UserRepository) Create(ctx context.Context, discordID *int64, minecraftUUID *string) (*models.User, error) {
	query := `
		INSERT INTO users (discord_id, minecraft_uuid)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, discordID, minecraftUUID))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// LinkMinecraft sets the Minecraft account of a user
func (r *UserRepository) LinkMinecraft(ctx context.Context, id int64, minecraftUUID string) (*models.User, error) {
	query := `
		UPDATE users
		SET minecraft_uuid = $2
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, id, minecraftUUID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to link minecraft account for user %d: %w", id, err)
	}
	return user, nil
}

// UpdateStanding raises a user's standing. Rank and Treehard level only move up and
// honorary quest status is never revoked here.
func (r *UserRepository) UpdateStanding(ctx context.Context, id int64, standing models.Standing) (*models.User, error) {
	query := `
		UPDATE users
		SET highest_rank = GREATEST(highest_rank, $2),
		    treehard_level = GREATEST(treehard_level, $3),
		    honorary_quest = honorary_quest OR $4
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, id, int16(standing.HighestRank), int16(standing.Treehard), standing.HonoraryQuest))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update standing for user %d: %w", id, err)
	}
	return user, nil
}

// SetSignatureColor sets or clears a user's embed colour
func (r *UserRepository) SetSignatureColor(ctx context.Context, id int64, color *int) error {
	result, err := r.q.Exec(ctx, `UPDATE users SET signature_color = $2 WHERE id = $1`, id, color)
	if err != nil {
		return fmt.Errorf("failed to set signature color for user %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}
