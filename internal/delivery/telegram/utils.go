package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func extractCommand(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.IsCommand() {
		return strings.ToLower(msg.Command())
	}
	txt := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(txt, "/") {
		return ""
	}
	first := strings.Fields(txt)[0]
	first = strings.TrimPrefix(first, "/")
	if first == "" {
		return ""
	}
	parts := strings.SplitN(first, "@", 2)
	return strings.ToLower(parts[0])
}

// commandArgs text after the command word
func commandArgs(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.IsCommand() {
		return strings.TrimSpace(msg.CommandArguments())
	}
	txt := strings.TrimSpace(msg.Text)
	if i := strings.IndexAny(txt, " \t\n"); i >= 0 {
		return strings.TrimSpace(txt[i+1:])
	}
	return ""
}
