// Package security covers who may command the bot and how join bursts are
// detected.
package security

import (
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/bmrdev/editing-helper/internal/state"
	"github.com/bmrdev/editing-helper/internal/storage"
)

// guildSnapshotTTL bounds how stale the cached owner and admin-role data may
// get before the next check refetches it.
const guildSnapshotTTL = 10 * time.Minute

type guildSnapshot struct {
	ownerID    snowflake.ID
	adminRoles map[snowflake.ID]struct{}
}

// Authorizer decides whether a user may issue privileged commands. Privilege
// comes from the creator marker in the username, guild ownership, being the
// recorded inviter, or holding an administrator role.
type Authorizer struct {
	rest        rest.Rest
	inviters    *storage.Inviters
	ownerMarker string
	guilds      *state.TTLMap[snowflake.ID, guildSnapshot]
	logger      *zap.Logger
}

// NewAuthorizer creates an Authorizer backed by the given REST client and
// inviter records.
func NewAuthorizer(restClient rest.Rest, inviters *storage.Inviters, ownerMarker string, logger *zap.Logger) *Authorizer {
	return &Authorizer{
		rest:        restClient,
		inviters:    inviters,
		ownerMarker: strings.ToLower(ownerMarker),
		guilds:      state.NewTTLMap[snowflake.ID, guildSnapshot](guildSnapshotTTL),
		logger:      logger.Named("authorizer"),
	}
}

// IsCreator reports whether the username carries the creator marker. This is
// checked everywhere the creator is exempt from moderation.
func (a *Authorizer) IsCreator(username string) bool {
	return strings.Contains(strings.ToLower(username), a.ownerMarker)
}

// IsPrivileged reports whether the user may issue privileged commands in the
// guild. roleIDs are the user's roles as carried on the triggering message.
// Lookup failures deny rather than guess.
func (a *Authorizer) IsPrivileged(guildID, userID snowflake.ID, username string, roleIDs []snowflake.ID) bool {
	if a.IsCreator(username) {
		return true
	}

	if inviterID, ok := a.inviters.Get(uint64(guildID)); ok && inviterID == uint64(userID) {
		return true
	}

	snapshot, ok := a.snapshot(guildID)
	if !ok {
		return false
	}

	if snapshot.ownerID == userID {
		return true
	}

	for _, roleID := range roleIDs {
		if _, isAdmin := snapshot.adminRoles[roleID]; isAdmin {
			return true
		}
	}

	return false
}

// snapshot returns the cached owner and admin roles for a guild, fetching
// them over REST on a cache miss.
func (a *Authorizer) snapshot(guildID snowflake.ID) (guildSnapshot, bool) {
	if cached, ok := a.guilds.Get(guildID); ok {
		return cached, true
	}

	guild, err := a.rest.GetGuild(guildID, false)
	if err != nil {
		a.logger.Warn("Failed to fetch guild for privilege check",
			zap.Uint64("guild_id", uint64(guildID)),
			zap.Error(err))
		return guildSnapshot{}, false
	}

	roles, err := a.rest.GetRoles(guildID)
	if err != nil {
		a.logger.Warn("Failed to fetch roles for privilege check",
			zap.Uint64("guild_id", uint64(guildID)),
			zap.Error(err))
		return guildSnapshot{}, false
	}

	snapshot := guildSnapshot{
		ownerID:    guild.OwnerID,
		adminRoles: make(map[snowflake.ID]struct{}),
	}
	for _, role := range roles {
		if role.Permissions.Has(discord.PermissionAdministrator) {
			snapshot.adminRoles[role.ID] = struct{}{}
		}
	}

	a.guilds.Set(guildID, snapshot)
	return snapshot, true
}
