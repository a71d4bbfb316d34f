// Package dispatch delivers rendered alerts to outbound webhook channels.
// Delivery failures are absorbed here: they are logged and counted but never
// propagated, because re-delivery is the upstream provider's concern.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"whalecaster/internal/domain"
	"whalecaster/internal/format"
	"whalecaster/internal/observability"
)

// DefaultTimeout bounds one outbound delivery call.
const DefaultTimeout = 10 * time.Second

// EmbedColor is the accent color of Discord embeds (the deployment default).
const EmbedColor = 5814783

// DefaultUsername is the webhook display name.
const DefaultUsername = "WhaleCaster"

// Sender posts one rendered message to an endpoint. Implementations define
// the channel-specific envelope.
type Sender interface {
	Name() string
	Send(ctx context.Context, endpoint, title string, msg format.Message) error
}

// DiscordSender wraps messages into a Discord webhook embed envelope.
type DiscordSender struct {
	client   *http.Client
	username string
}

// NewDiscordSender creates a Discord embed sender with the default timeout.
func NewDiscordSender() *DiscordSender {
	return &DiscordSender{
		client:   &http.Client{Timeout: DefaultTimeout},
		username: DefaultUsername,
	}
}

// Name implements Sender.
func (s *DiscordSender) Name() string { return "discord" }

// discordEmbed is the rich-message object of the Discord webhook API.
type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type discordPayload struct {
	Username string         `json:"username"`
	Embeds   []discordEmbed `json:"embeds"`
}

// Send implements Sender.
func (s *DiscordSender) Send(ctx context.Context, endpoint, title string, msg format.Message) error {
	payload := discordPayload{
		Username: s.username,
		Embeds: []discordEmbed{{
			Title:       title,
			Description: msg.Description,
			Color:       EmbedColor,
		}},
	}
	return post(ctx, s.client, endpoint, payload)
}

// PlainSender posts the message as a bare content field, for generic webhook
// receivers that do not understand embeds.
type PlainSender struct {
	client *http.Client
}

// NewPlainSender creates a plain-content sender with the default timeout.
func NewPlainSender() *PlainSender {
	return &PlainSender{client: &http.Client{Timeout: DefaultTimeout}}
}

// Name implements Sender.
func (s *PlainSender) Name() string { return "plain" }

// Send implements Sender.
func (s *PlainSender) Send(ctx context.Context, endpoint, _ string, msg format.Message) error {
	return post(ctx, s.client, endpoint, map[string]string{"content": msg.Plain()})
}

// post encodes payload as JSON and POSTs it, treating any non-2xx status as
// an error.
func post(ctx context.Context, client *http.Client, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Dispatcher performs outbound deliveries and absorbs their failures.
type Dispatcher struct {
	sender Sender
	logger *log.Logger
}

// Options configures a Dispatcher.
type Options struct {
	Sender Sender      // defaults to NewDiscordSender()
	Logger *log.Logger // defaults to a [dispatch]-prefixed stdout logger
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	if opts.Sender == nil {
		opts.Sender = NewDiscordSender()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[dispatch] ", log.LstdFlags|log.Lshortfile)
	}
	return &Dispatcher{sender: opts.Sender, logger: opts.Logger}
}

// Dispatch delivers one message to one channel endpoint. It reports whether
// delivery succeeded; a failure is logged and counted, never returned. There
// is no retry or queueing: a dropped alert is re-delivered (if at all) by the
// upstream webhook provider re-sending the triggering event.
func (d *Dispatcher) Dispatch(ctx context.Context, channel domain.Channel, endpoint string, msg format.Message) bool {
	if endpoint == "" {
		return false
	}

	start := time.Now()
	err := d.sender.Send(ctx, endpoint, format.TitleFor(channel), msg)
	observability.RecordDispatch(string(channel), time.Since(start).Seconds(), err)

	if err != nil {
		d.logger.Printf("deliver to %s channel failed: %v", channel, err)
		return false
	}
	return true
}
