package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// pollPause is the wait after a failed getUpdates call.
const pollPause = 5 * time.Second

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
	} `json:"message"`
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second, Transport: t.Client.Transport}

	for {
		select {
		case <-ctx.Done():
			t.Log.Info("telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=30", t.APIBase, t.BotToken, offset)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			t.Log.Errorf("create polling request: %v", err)
			return
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			t.Log.Warnf("polling request failed: %v", err)
			sleep(ctx, pollPause)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Log.Warnf("read polling response: %v", err)
			sleep(ctx, pollPause)
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			t.Log.Errorf("telegram rejected the bot token, polling stopped: %s", string(body))
			return
		}
		if resp.StatusCode != http.StatusOK {
			t.Log.Warnf("polling status %d: %s", resp.StatusCode, string(body))
			sleep(ctx, pollPause)
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			t.Log.Warnf("decode polling response: %v", err)
			sleep(ctx, pollPause)
			continue
		}
		if !result.OK {
			t.Log.Warnf("polling not ok: %s", string(body))
			sleep(ctx, pollPause)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			t.Log.Infof("received command: %s", text)
			reply := handler(text)
			if reply != "" {
				if err := t.Send(ctx, reply); err != nil {
					t.Log.Errorf("send reply: %v", err)
				}
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
