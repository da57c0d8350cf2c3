package service

import (
	"context"
	"time"

	"heinzbottle/events"
	"heinzbottle/hypixel"
	"heinzbottle/leaderboard"
	"heinzbottle/models"
	"heinzbottle/promotion"
	"heinzbottle/statdoc"
)

// StatSource provides player statistics and the guild roster
type StatSource interface {
	// FetchPlayer returns a player's statistics by undashed UUID
	FetchPlayer(ctx context.Context, uuid string) (*statdoc.Document, error)

	// FetchPlayerByName returns a player's statistics by username
	FetchPlayerByName(ctx context.Context, username string) (*statdoc.Document, error)

	// FetchGuild returns the guild and its roster
	FetchGuild(ctx context.Context, guildID string) (*hypixel.Guild, error)
}

// Limiter paces requests against the stat source
type Limiter interface {
	Wait(ctx context.Context) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by database ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByDiscordID retrieves a user by their Discord ID
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// GetByMinecraftUUID retrieves a user by their undashed Minecraft UUID
	GetByMinecraftUUID(ctx context.Context, uuid string) (*models.User, error)

	// GetAll returns every enrolled user
	GetAll(ctx context.Context) ([]*models.User, error)

	// Create enrolls a new user
	Create(ctx context.Context, discordID *int64, minecraftUUID *string) (*models.User, error)

	// LinkMinecraft sets the Minecraft account of a user
	LinkMinecraft(ctx context.Context, id int64, minecraftUUID string) (*models.User, error)

	// UpdateStanding raises a user's recorded standing; stored values are never lowered
	UpdateStanding(ctx context.Context, id int64, standing models.Standing) (*models.User, error)

	// SetSignatureColor sets or clears a user's embed colour
	SetSignatureColor(ctx context.Context, id int64, color *int) error

	// Delete removes a user
	Delete(ctx context.Context, id int64) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes queued events
	Commit() error

	// Rollback rolls back the transaction and drops queued events
	Rollback() error

	UserRepository() UserRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// LeaderboardService owns the published leaderboard snapshot
type LeaderboardService interface {
	// Refresh rebuilds every board from the current roster and publishes the result
	Refresh(ctx context.Context) (*RefreshResult, error)

	// Recover rebuilds the snapshot from previously published pages
	Recover(ctx context.Context, boards []PublishedBoard) (*RecoveryResult, error)

	// Snapshot returns the published snapshot, or nil before the first refresh or recovery
	Snapshot() *Snapshot

	// Definitions returns the boards in display order
	Definitions() []leaderboard.Definition

	// NextRefresh reports when the cooldown allows another refresh
	NextRefresh() time.Time
}

// PromotionService evaluates the roster for promotions
type PromotionService interface {
	// Report evaluates every member below Veteran
	Report(ctx context.Context) (*promotion.Report, error)
}

// MemberService manages enrolled users and their standing
type MemberService interface {
	// Link enrolls a Discord user if needed and links their Minecraft account
	Link(ctx context.Context, discordID int64, username string) (*LinkResult, error)

	// Sync recomputes a user's standing and the roles their Discord account should hold
	Sync(ctx context.Context, discordID int64, currentRoles []string) (*SyncResult, error)

	// Requirements reports the requirements a player meets and misses. An empty username
	// checks the Minecraft account linked to discordID.
	Requirements(ctx context.Context, discordID int64, username string) (*RequirementsResult, error)

	// UserInfo summarizes the user enrolled with a Discord account
	UserInfo(ctx context.Context, discordID int64) (*UserInfo, error)

	// UserInfoByUsername summarizes the user linked to a Minecraft account
	UserInfoByUsername(ctx context.Context, username string) (*UserInfo, error)

	// UserInfoByID summarizes the user with a database ID
	UserInfoByID(ctx context.Context, id int64) (*UserInfo, error)

	// SetSignatureColor sets or clears the colour used for a user's embeds
	SetSignatureColor(ctx context.Context, discordID int64, color *int) error

	// GrantStanding raises recognition an admin hands out manually
	GrantStanding(ctx context.Context, discordID int64, standing models.Standing) (*models.User, error)
}
