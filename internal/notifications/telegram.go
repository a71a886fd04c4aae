package notifications

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TelegramNotifier sends messages through the Telegram bot API. One bot
// token serves every user; the chat ID selects the recipient per call.
type TelegramNotifier struct {
	token      string
	httpClient *http.Client
}

func NewTelegramNotifier(token string) *TelegramNotifier {
	return &TelegramNotifier{
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *TelegramNotifier) SendMessage(ctx context.Context, chatID int64, message string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	data := url.Values{}
	data.Set("chat_id", strconv.FormatInt(chatID, 10))
	data.Set("text", message)
	data.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL,
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// LogNotifier is a no-op delivery used when no bot token is configured.
type LogNotifier struct {
	Printf func(format string, args ...interface{})
}

func (l *LogNotifier) SendMessage(_ context.Context, chatID int64, message string) error {
	if l.Printf != nil {
		l.Printf("notification for %d: %s", chatID, message)
	}
	return nil
}
