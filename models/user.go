package models

import (
	"time"
)

// User links a Discord account to a Minecraft account and holds their guild standing
type User struct {
	ID             int64     `db:"id"`
	DiscordID      *int64    `db:"discord_id"`
	MinecraftUUID  *string   `db:"minecraft_uuid"`
	EnrolledAt     time.Time `db:"enrolled_at"`
	SignatureColor *int      `db:"signature_color"`
	Standing       Standing  `db:"-"`
	UpdatedAt      time.Time `db:"updated_at"`
}
