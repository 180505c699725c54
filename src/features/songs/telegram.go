package songs

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the songs feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the songs feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes song-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "song":
		return h.handleSong(bot, chatID, args)
	case "delsong":
		return h.handleDeleteSong(bot, chatID, args)
	case "scan":
		return h.handleScan(bot, chatID)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown songs command. Use /song <id>, /delsong <id> or /scan"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"song":    "Show a song by id (/song <id>)",
		"delsong": "Delete a song by id (/delsong <id>)",
		"scan":    "Ingest everything currently in the inbox",
	}
}

// handleSong shows a single song
func (h *TelegramHandler) handleSong(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Usage: /song <id>"))
		return nil
	}

	song, err := h.service.Get(context.Background(), id)
	if err != nil {
		escapedError := h.escapeMarkdown(err.Error())
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Failed to get song: %s", escapedError))
		bot.Send(msg)
		return nil
	}

	message := fmt.Sprintf("🎵 *%s*\n\n"+
		"*Artist:* %s\n"+
		"*Album:* %s\n"+
		"*Genre:* %s\n"+
		"*Track:* %d\n\n"+
		"*File:* `%s`\n"+
		"*ID:* `%s`",
		h.escapeMarkdown(song.DisplayTitle()),
		h.escapeMarkdown(song.DisplayArtist()),
		h.escapeMarkdown(song.Album),
		h.escapeMarkdown(song.Genre),
		song.Track,
		song.File,
		song.ID)

	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

// handleDeleteSong asks for confirmation before deleting
func (h *TelegramHandler) handleDeleteSong(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	id := strings.TrimSpace(args)
	if id == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Usage: /delsong <id>"))
		return nil
	}

	song, err := h.service.Get(context.Background(), id)
	if err != nil {
		escapedError := h.escapeMarkdown(err.Error())
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Failed to get song: %s", escapedError))
		bot.Send(msg)
		return nil
	}

	message := fmt.Sprintf("🗑️ Delete *%s* by *%s*?\n\nThe file is removed from the library as well.",
		h.escapeMarkdown(song.DisplayTitle()),
		h.escapeMarkdown(song.DisplayArtist()))

	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Delete", fmt.Sprintf("song_delete_%s", song.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Keep", fmt.Sprintf("song_keep_%s", song.ID)),
		},
	)
	bot.Send(msg)
	return nil
}

// handleScan ingests the inbox contents
func (h *TelegramHandler) handleScan(bot *tgbotapi.BotAPI, chatID int64) error {
	imported, err := h.service.ScanInbox(context.Background())
	if err != nil {
		escapedError := h.escapeMarkdown(err.Error())
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Inbox scan failed: %s", escapedError))
		bot.Send(msg)
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("📥 Inbox scan finished, %d song(s) ingested", imported))
	bot.Send(msg)
	return nil
}

// HandleCallback handles callback queries for this feature
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	data := callback.Data
	if !strings.HasPrefix(data, "song_") {
		return false // Not handled by this feature
	}

	chatID := callback.Message.Chat.ID

	parts := strings.SplitN(data, "_", 3)
	if len(parts) < 3 {
		return false
	}
	action, id := parts[1], parts[2]

	switch action {
	case "delete":
		song, err := h.service.Delete(context.Background(), id)
		if err != nil {
			escapedError := h.escapeMarkdown(err.Error())
			msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Failed to delete song: %s", escapedError))
			bot.Send(msg)
			return true
		}
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Deleted *%s*", h.escapeMarkdown(song.DisplayTitle())))
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
	case "keep":
		bot.Send(tgbotapi.NewMessage(chatID, "👍 Song kept"))
	default:
		return false
	}

	return true // Callback was handled
}

// escapeMarkdown escapes special characters in text for safe Markdown usage
func (h *TelegramHandler) escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "*", "\\*")
	text = strings.ReplaceAll(text, "_", "\\_")
	text = strings.ReplaceAll(text, "[", "\\[")
	text = strings.ReplaceAll(text, "]", "\\]")
	return text
}
