package telegram

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"clicker_webapp/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SubscriptionService answers channel membership questions through the Bot
// API getChatMember call. The bot must be an admin of every checked channel,
// otherwise Telegram answers with an error and the check stays inconclusive.
type SubscriptionService struct {
	bot *tgbotapi.BotAPI
	log *slog.Logger
}

func NewSubscriptionService(botToken string, timeout time.Duration) (*SubscriptionService, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, err
	}

	return &SubscriptionService{
		bot: bot,
		log: logger.With("component", "subscription"),
	}, nil
}

// IsMember reports whether tgID belongs to the channel. channelID accepts a
// numeric chat id or an @username. An error means the check did not happen,
// not that the player left the channel.
func (s *SubscriptionService) IsMember(ctx context.Context, channelID string, tgID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: tgID},
	}
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		cfg.ChatID = id
	} else {
		cfg.SuperGroupUsername = ensureAtPrefix(channelID)
	}

	member, err := s.bot.GetChatMember(cfg)
	if err != nil {
		s.log.Warn("getChatMember failed", "channel", channelID, "tg_id", tgID, "error", err)
		return false, err
	}

	switch member.Status {
	case "creator", "administrator", "member":
		return true, nil
	default:
		return false, nil
	}
}

func ensureAtPrefix(username string) string {
	if strings.HasPrefix(username, "@") {
		return username
	}
	return "@" + username
}
