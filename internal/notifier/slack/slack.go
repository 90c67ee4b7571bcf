package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/duellords/duel-lords/internal/metrics"
	"github.com/duellords/duel-lords/internal/notifier"
	"github.com/duellords/duel-lords/internal/tournament"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api            slackClient
	channelID      string
	gameServerAddr string
	metrics        metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID, gameServerAddr string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:            api,
		channelID:      channelID,
		gameServerAddr: gameServerAddr,
		metrics:        metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID, gameServerAddr string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:            api,
		channelID:      channelID,
		gameServerAddr: gameServerAddr,
		metrics:        metrics,
	}
}

func (s *Notifier) sendMessage(channelID string, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channel, timestamp, err := s.api.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channel, "timestamp", timestamp)
	return channel, timestamp, nil
}

// sendDirectMessage opens (or reuses) the DM conversation with the user and
// posts the message there.
func (s *Notifier) sendDirectMessage(userID string, message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack DM", "userID", userID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channel, _, _, err := s.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{Users: []string{userID}})
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to open DM conversation", "error", err, "userID", userID)
		return fmt.Errorf("failed to open conversation: %w", err)
	}

	_, _, err = s.sendMessage(channel.ID, message, dryRun)
	return err
}

// SendDuelScheduled announces a new duel in the channel and DMs both players.
func (s *Notifier) SendDuelScheduled(duel *tournament.Duel, dryRun bool) error {
	msg := s.formatDuelScheduled(duel)
	if _, _, err := s.sendMessage(s.channelID, msg, dryRun); err != nil {
		return err
	}

	// DM failures here are non-fatal; the channel announcement already went out.
	dm := s.formatDuelDM(duel)
	for _, userID := range []string{duel.Player1ID, duel.Player2ID} {
		if err := s.sendDirectMessage(userID, dm, dryRun); err != nil {
			log.Warn("Could not send duel DM", "error", err, "userID", userID, "duelID", duel.ID)
		}
	}
	return nil
}

// SendDuelReminder DMs both players that their duel starts within five
// minutes. Any DM failure is reported so the caller can retry on the next
// poll; the other player's DM is still attempted.
func (s *Notifier) SendDuelReminder(duel *tournament.Duel, dryRun bool) error {
	msg := s.formatDuelReminder(duel)
	var firstErr error
	for _, userID := range []string{duel.Player1ID, duel.Player2ID} {
		if err := s.sendDirectMessage(userID, msg, dryRun); err != nil {
			log.Error("Failed to send duel reminder DM", "error", err, "userID", userID, "duelID", duel.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// SendMatchResult announces a recorded result in the channel.
func (s *Notifier) SendMatchResult(match *tournament.MatchSummary, dryRun bool) error {
	msg := s.formatMatchResult(match)
	_, _, err := s.sendMessage(s.channelID, msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(players []tournament.Player) (any, error) {
	return s.formatLeaderboard(players), nil
}

// FormatPlayersResponse formats the registered players list for a slash command response.
func (s *Notifier) FormatPlayersResponse(players []tournament.Player) (any, error) {
	return s.formatPlayers(players), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(player *tournament.Player) (any, error) {
	return s.formatPlayerStats(player), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func formatDuelTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("Monday 02 Jan, 15:04") + " UTC"
}

// formatDuelScheduled creates the channel announcement for a new duel using Block Kit.
func (s *Notifier) formatDuelScheduled(duel *tournament.Duel) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚔️ Duel scheduled! ⚔️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	fightersText := fmt.Sprintf("<@%s> vs <@%s>", duel.Player1ID, duel.Player2ID)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", fightersText, false, false), nil, nil))

	detailsText := fmt.Sprintf("Time: %s\nServer: `%s`", formatDuelTime(duel.ScheduledTime), s.gameServerAddr)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", detailsText, false, false), nil, nil))

	contextText := slack.NewTextBlockObject("plain_text", "Both players get a DM reminder 5 minutes before the match.", true, false)
	blocks = append(blocks, slack.NewContextBlock("", contextText))

	return slack.NewBlockMessage(blocks...)
}

// formatDuelDM creates the direct message sent to each player when a duel is scheduled.
func (s *Notifier) formatDuelDM(duel *tournament.Duel) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚔️ You have a duel!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("<@%s> vs <@%s>\nTime: %s\nServer: `%s`",
		duel.Player1ID, duel.Player2ID, formatDuelTime(duel.ScheduledTime), s.gameServerAddr)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", detailsText, false, false), nil, nil))

	contextText := slack.NewTextBlockObject("plain_text", "You'll receive a reminder 5 minutes before the match.", true, false)
	blocks = append(blocks, slack.NewContextBlock("", contextText))

	return slack.NewBlockMessage(blocks...)
}

// formatDuelReminder creates the DM sent when a duel enters its reminder window.
func (s *Notifier) formatDuelReminder(duel *tournament.Duel) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⏰ Match reminder", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	bodyText := fmt.Sprintf("Your match <@%s> vs <@%s> starts in 5 minutes!\nServer: `%s`",
		duel.Player1ID, duel.Player2ID, s.gameServerAddr)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", bodyText, false, false), nil, nil))

	contextText := slack.NewTextBlockObject("plain_text", "Join the server and prepare for your match. Good luck!", true, false)
	blocks = append(blocks, slack.NewContextBlock("", contextText))

	return slack.NewBlockMessage(blocks...)
}

// formatMatchResult creates the channel announcement for a recorded result.
func (s *Notifier) formatMatchResult(match *tournament.MatchSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Match result recorded!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var resultText string
	if match.WinnerID != nil {
		resultText = fmt.Sprintf("<@%s> defeated ", *match.WinnerID)
		if *match.WinnerID == match.Player1ID {
			resultText += fmt.Sprintf("<@%s>", match.Player2ID)
		} else {
			resultText += fmt.Sprintf("<@%s>", match.Player1ID)
		}
	} else {
		resultText = fmt.Sprintf("<@%s> and <@%s> drew", match.Player1ID, match.Player2ID)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", resultText, false, false), nil, nil))

	combatText := fmt.Sprintf("<@%s>: %dK/%dD\n<@%s>: %dK/%dD",
		match.Player1ID, match.Player1Kills, match.Player1Deaths,
		match.Player2ID, match.Player2Kills, match.Player2Deaths)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", combatText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the tournament leaderboard.
func (s *Notifier) formatLeaderboard(players []tournament.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Tournament Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players registered yet. Go fight some duels!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, p := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Points: %d | W/L/D: %d/%d/%d | K/D: %.2f | Win Rate: %.1f%%",
			rank,
			medal,
			p.Name,
			p.Points,
			p.Wins, p.Losses, p.Draws,
			kdRatio(p),
			winRate(p),
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayers creates a Slack message listing all registered players.
func (s *Notifier) formatPlayers(players []tournament.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "👥 Registered Players", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players registered yet!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, p := range players {
		total := p.Wins + p.Losses + p.Draws
		playerText := fmt.Sprintf("%d. %s - %d matches", i+1, p.Name, total)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message with a single player's statistics.
func (s *Notifier) formatPlayerStats(p *tournament.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📊 Tournament Statistics", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	total := p.Wins + p.Losses + p.Draws
	statsText := fmt.Sprintf("Statistics for %s\nWins: %d | Losses: %d | Draws: %d\nKills: %d | Deaths: %d | K/D: %.2f\nMatches: %d | Win Rate: %.1f%% | Points: %d",
		p.Name,
		p.Wins, p.Losses, p.Draws,
		p.Kills, p.Deaths, kdRatio(*p),
		total, winRate(*p), p.Points,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", statsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a message for when a player query returns no result.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Player %q is not registered in the tournament.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, false, false), nil, nil),
	)
}

func kdRatio(p tournament.Player) float64 {
	if p.Deaths > 0 {
		return float64(p.Kills) / float64(p.Deaths)
	}
	return float64(p.Kills)
}

func winRate(p tournament.Player) float64 {
	total := p.Wins + p.Losses + p.Draws
	if total == 0 {
		return 0
	}
	return float64(p.Wins) / float64(total) * 100
}
