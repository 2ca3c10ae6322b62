package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"clicker_webapp/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GameBot greets players in the chat and hands out the webapp button. The
// referral payload from /start deep links is forwarded into the webapp via
// start_param, so attribution itself happens at auth time.
type GameBot struct {
	bot       *tgbotapi.BotAPI
	webAppURL string
	botName   string
	stopCh    chan struct{}
	wg        sync.WaitGroup
	log       *slog.Logger
}

func NewGameBot(token, webAppURL, botName string) (*GameBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "game_bot")
	log.Info("game bot authorized", "username", bot.Self.UserName)

	return &GameBot{
		bot:       bot,
		webAppURL: webAppURL,
		botName:   botName,
		stopCh:    make(chan struct{}),
		log:       log,
	}, nil
}

// Start runs the update loop until Stop is called.
func (b *GameBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop gracefully stops the bot
func (b *GameBot) Stop() {
	b.log.Info("stopping game bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("game bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("game bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *GameBot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "help":
		b.reply(msg, b.helpMessage())
	case "invite":
		b.reply(msg, b.inviteMessage(msg.From.ID))
	}
}

func (b *GameBot) handleStart(msg *tgbotapi.Message) {
	payload := strings.TrimSpace(msg.CommandArguments())

	url := b.webAppURL
	if payload != "" {
		// кнопка открывает webapp с тем же payload, атрибуция там
		url = b.webAppURL + "?startapp=" + payload
	}

	text := "🪙 <b>Добро пожаловать в кликер!</b>\n\nЖми на монету, покупай улучшения и поднимайся в топе. Открывай игру кнопкой ниже 👇"

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = "HTML"
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:   "🎮 Играть",
				WebApp: &tgbotapi.WebAppInfo{URL: url},
			},
		),
	)

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending start message", "error", err)
	}
}

func (b *GameBot) helpMessage() string {
	return `<b>🪙 Кликер</b>

/start - Открыть игру
/invite - Получить реферальную ссылку
/help - Это сообщение

За каждого приглашённого друга вы получаете бонус к балансу.`
}

func (b *GameBot) inviteMessage(tgID int64) string {
	link := fmt.Sprintf("https://t.me/%s?start=ref_%d", b.botName, tgID)
	return fmt.Sprintf(`<b>👥 Приглашайте друзей!</b>

Ваша ссылка:
<code>%s</code>

Бонус начисляется, когда друг впервые откроет игру.`, link)
}

func (b *GameBot) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = "HTML"
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}
