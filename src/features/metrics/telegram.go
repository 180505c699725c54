package metrics

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the metrics feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the metrics feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes metrics-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "stats":
		return h.handleStats(bot, chatID)
	case "recent":
		return h.handleRecent(bot, chatID)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown metrics command. Use /stats or /recent"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"stats":  "Show library statistics",
		"recent": "Show the most recently added songs",
	}
}

// HandleCallback handles callback queries for this feature (metrics has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleStats shows library statistics
func (h *TelegramHandler) handleStats(bot *tgbotapi.BotAPI, chatID int64) error {
	stats := h.service.GetStats(context.Background())

	message := fmt.Sprintf("📊 *Library Statistics*\n\n"+
		"🎵 Songs: `%d`\n---\n"+
		"👤 Artists: `%d`\n---\n"+
		"💿 Albums: `%d`\n---\n"+
		"🏷️ Untagged: `%d`",
		stats.Songs, stats.Artists, stats.Albums, stats.Untagged)

	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

// handleRecent shows the latest additions
func (h *TelegramHandler) handleRecent(bot *tgbotapi.BotAPI, chatID int64) error {
	songs, err := h.service.Recent(context.Background(), 10)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to get recent songs")
		bot.Send(msg)
		return err
	}

	if len(songs) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "📭 The library is empty"))
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🕑 *Recently Added*\n")
	for _, song := range songs {
		sb.WriteString(fmt.Sprintf("\n• %s by %s", escapeMarkdown(song.DisplayTitle()), escapeMarkdown(song.DisplayArtist())))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

// escapeMarkdown escapes special characters in text for safe Markdown usage
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "*", "\\*")
	text = strings.ReplaceAll(text, "_", "\\_")
	text = strings.ReplaceAll(text, "[", "\\[")
	text = strings.ReplaceAll(text, "]", "\\]")
	return text
}
