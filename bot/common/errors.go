package common

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError carries the message shown to the Discord user alongside the internal error
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (unknown player, missing link, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
	}
}

// NewSystemError creates an error for system issues (database, Hypixel outage, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: GenericFailure,
		LogMessage:  logMessage,
		Err:         err,
	}
}

// HandleError logs err and shows the user its message. Deferred interactions get their
// response edited; others get an ephemeral reply.
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	message := GenericFailure
	fields := log.Fields{
		"user_id": UserID(i),
		"command": i.ApplicationCommandData().Name,
		"error":   err.Error(),
	}

	if botErr, ok := err.(*BotError); ok {
		message = botErr.UserMessage
		if botErr.Err != nil {
			log.WithFields(fields).Error(botErr.LogMessage)
		} else {
			log.WithFields(fields).Info(botErr.LogMessage)
		}
	} else {
		log.WithFields(fields).Error("Unexpected error in bot command")
	}

	if deferred {
		EditWithNotice(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
