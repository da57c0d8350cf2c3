package service

import (
	"errors"
	"fmt"
	"time"

	"heinzbottle/hypixel"
)

var (
	// ErrRefreshInProgress is returned when another refresh or recovery holds the leaderboards
	ErrRefreshInProgress = errors.New("a leaderboard refresh is already in progress")

	// ErrRecoveryUnavailable is returned when there are no published boards to recover from
	ErrRecoveryUnavailable = errors.New("no published leaderboards to recover from")

	// ErrUserNotEnrolled is returned when a Discord user has no database record
	ErrUserNotEnrolled = errors.New("user is not enrolled")

	// ErrMinecraftNotLinked is returned when a user has no linked Minecraft account
	ErrMinecraftNotLinked = errors.New("user has no linked minecraft account")

	// ErrAccountAlreadyLinked is returned when a Minecraft account belongs to another user
	ErrAccountAlreadyLinked = errors.New("minecraft account is linked to another user")

	// Re-exported from the stat source so callers need not import it
	ErrPlayerNotFound = hypixel.ErrPlayerNotFound
	ErrGuildNotFound  = hypixel.ErrGuildNotFound
)

// CooldownError is returned when a refresh is requested before the cooldown has passed
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("leaderboards were refreshed recently, try again in %s", e.Remaining.Round(time.Minute))
}

// LinkedElsewhereError is returned when linking a Minecraft account held by another user.
// It matches ErrAccountAlreadyLinked.
type LinkedElsewhereError struct {
	Username  string
	DiscordID *int64 // nil when the holder has no Discord account
}

func (e *LinkedElsewhereError) Error() string {
	return fmt.Sprintf("%s: %s", e.Username, ErrAccountAlreadyLinked)
}

func (e *LinkedElsewhereError) Unwrap() error {
	return ErrAccountAlreadyLinked
}
