package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/forgo/raidledger/api/internal/model"
)

const defaultDiscordBaseURL = "https://discord.com/api/v10"

// DiscordConfig holds settings for the Discord bot connection
type DiscordConfig struct {
	BotToken string
	BaseURL  string
	Timeout  time.Duration
}

// DiscordClient posts event announcements through the Discord REST API
type DiscordClient struct {
	baseURL    string
	botToken   string
	timeout    time.Duration
	httpClient *http.Client
	retry      retryConfig
}

// NewDiscordClient creates a Discord announcement client
func NewDiscordClient(cfg DiscordConfig) *DiscordClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultDiscordBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &DiscordClient{
		baseURL:    baseURL,
		botToken:   cfg.BotToken,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		retry:      defaultRetryConfig(),
	}
}

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields"`
	Timestamp   string              `json:"timestamp"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

const embedColorBlurple = 0x5865F2

// AnnounceEvent posts an embed describing the event to the channel
func (c *DiscordClient) AnnounceEvent(ctx context.Context, channelID string, event *model.Event) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(buildAnnouncement(event))
	if err != nil {
		return fmt.Errorf("failed to encode announcement: %w", err)
	}

	endpoint := c.baseURL + "/channels/" + channelID + "/messages"

	resp, err := doWithRetry(ctx, c.httpClient, c.retry, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bot "+c.botToken)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("discord announcement failed: %w", err)
	}
	resp.Body.Close()
	return nil
}

func buildAnnouncement(event *model.Event) discordMessage {
	description := ""
	if event.Description != nil {
		description = *event.Description
	}

	fields := []discordEmbedField{
		{Name: "Game", Value: event.Game, Inline: true},
		{Name: "Starts", Value: discordTimestamp(event.StartsAt), Inline: true},
		{Name: "Ends", Value: discordTimestamp(event.EndsAt), Inline: true},
	}
	if event.MaxAttendees != nil {
		fields = append(fields, discordEmbedField{
			Name:   "Spots",
			Value:  fmt.Sprintf("%d", *event.MaxAttendees),
			Inline: true,
		})
	}

	return discordMessage{
		Embeds: []discordEmbed{{
			Title:       event.Title,
			Description: description,
			Color:       embedColorBlurple,
			Fields:      fields,
			Timestamp:   event.StartsAt.UTC().Format(time.RFC3339),
		}},
	}
}

// discordTimestamp renders Discord's dynamic timestamp markup, which
// clients display in the viewer's local time zone.
func discordTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:F>", t.Unix())
}
