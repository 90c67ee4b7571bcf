package notifier

import "github.com/duellords/duel-lords/internal/tournament"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendDuelScheduled announces a new duel in the channel and DMs both players.
	SendDuelScheduled(duel *tournament.Duel, dryRun bool) error
	// SendDuelReminder DMs both players shortly before their duel starts. The
	// returned error covers the whole dispatch; individual DM failures are
	// logged and do not suppress the remaining sends.
	SendDuelReminder(duel *tournament.Duel, dryRun bool) error
	// SendMatchResult announces a recorded result in the channel.
	SendMatchResult(match *tournament.MatchSummary, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(players []tournament.Player) (any, error)
	FormatPlayersResponse(players []tournament.Player) (any, error)
	FormatPlayerStatsResponse(player *tournament.Player) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
