package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier talks to the Telegram Bot API: it pushes reports to the
// configured chat and answers commands through polling.
type TelegramNotifier struct {
	APIBase  string
	BotToken string
	ChatID   string
	Client   *http.Client
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// apiResult is the envelope every Bot API method answers with.
type apiResult struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func proxyClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if u, err := url.Parse(proxyURL); proxyURL != "" && err == nil {
		transport.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	return &TelegramNotifier{
		APIBase:  telegramAPI,
		BotToken: botToken,
		ChatID:   chatID,
		Client:   proxyClient(proxyURL, 30*time.Second),
	}
}

func (t *TelegramNotifier) method(name string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, name)
}

// Send delivers text to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	return t.SendTo(t.ChatID, text)
}

// SendTo delivers HTML-formatted text to chatID.
func (t *TelegramNotifier) SendTo(chatID, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}
	resp, err := t.Client.Post(t.method("sendMessage"), "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	defer resp.Body.Close()

	var res apiResult
	decodeErr := json.NewDecoder(resp.Body).Decode(&res)
	if resp.StatusCode != http.StatusOK || !res.OK {
		if decodeErr == nil && res.Description != "" {
			return fmt.Errorf("sendMessage to %s: %s (status %d)", chatID, res.Description, resp.StatusCode)
		}
		return fmt.Errorf("sendMessage to %s: status %d", chatID, resp.StatusCode)
	}
	return nil
}
