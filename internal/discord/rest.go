package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"AutoFisher/internal/config"
	"AutoFisher/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	apiBase = "https://discord.com/api/v9"

	// Application ID of the fishing game's bot.
	applicationID = "574652751745777665"
)

// Client issues slash-command and component interactions against the
// Discord REST API on behalf of a user account.
type Client struct {
	http      *http.Client
	token     string
	userAgent string
	sessionID string
	log       zerolog.Logger
}

// NewClient creates a REST client with optional proxy support.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		token:     cfg.Discord.Token,
		userAgent: cfg.Discord.UserAgent,
		// Interactions carry a locally generated session id, not the
		// gateway's.
		sessionID: strings.ReplaceAll(uuid.NewString(), "-", ""),
		log:       log.With().Str("component", "discord").Logger(),
	}
}

// LookupCommand fetches the guild's application command index and returns
// the named command belonging to the fishing game, or nil if not found.
func (c *Client) LookupCommand(ctx context.Context, guildID, name string) (*model.ApplicationCommand, error) {
	reqURL := fmt.Sprintf("%s/guilds/%s/application-command-index", apiBase, guildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch command index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("command index: status %d, body: %s", resp.StatusCode, string(body))
	}

	var index struct {
		ApplicationCommands []json.RawMessage `json:"application_commands"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("decode command index: %w", err)
	}

	for _, raw := range index.ApplicationCommands {
		var cmd model.ApplicationCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}
		var meta struct {
			ApplicationID string `json:"application_id"`
		}
		if err := json.Unmarshal(raw, &meta); err != nil || meta.ApplicationID != applicationID {
			continue
		}
		if cmd.Name == name {
			cmd.Raw = raw
			return &cmd, nil
		}
	}
	return nil, nil
}

// SubmitCommand sends a type-2 interaction invoking the given slash command.
func (c *Client) SubmitCommand(ctx context.Context, guildID, channelID string, cmd *model.ApplicationCommand, options []model.InteractionOption) error {
	if cmd == nil {
		return fmt.Errorf("nil command")
	}
	if options == nil {
		options = []model.InteractionOption{}
	}

	payload := map[string]any{
		"type":           2,
		"application_id": applicationID,
		"guild_id":       guildID,
		"channel_id":     channelID,
		"session_id":     c.sessionID,
		"data": map[string]any{
			"version":             cmd.Version,
			"id":                  cmd.ID,
			"name":                cmd.Name,
			"type":                cmd.Type,
			"options":             options,
			"application_command": json.RawMessage(cmd.Raw),
			"attachments":         []any{},
		},
		"nonce": nonce(),
	}
	return c.postInteraction(ctx, cmd.Name, payload)
}

// SubmitComponent sends a type-3 interaction clicking a button on a message.
func (c *Client) SubmitComponent(ctx context.Context, guildID, channelID, messageID, customID string) error {
	payload := map[string]any{
		"type":           3,
		"application_id": applicationID,
		"guild_id":       guildID,
		"channel_id":     channelID,
		"session_id":     c.sessionID,
		"message_flags":  0,
		"message_id":     messageID,
		"data": map[string]any{
			"component_type": 2,
			"custom_id":      customID,
		},
		"nonce": nonce(),
	}
	return c.postInteraction(ctx, "component:"+customID, payload)
}

func (c *Client) postInteraction(ctx context.Context, what string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/interactions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit interaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusTooManyRequests {
			c.log.Warn().Str("interaction", what).Str("body", string(respBody)).Msg("rate limited")
		}
		return fmt.Errorf("interaction %s: status %d, body: %s", what, resp.StatusCode, string(respBody))
	}

	c.log.Debug().Str("interaction", what).Msg("interaction submitted")
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.token)
	req.Header.Set("User-Agent", c.userAgent)
}

func nonce() string {
	return fmt.Sprintf("%d", time.Now().UnixMilli()*1000)
}
