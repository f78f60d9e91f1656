package model

import "encoding/json"

// User is a message author.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot,omitempty"`
}

// Message is a chat message delivered over the gateway.
type Message struct {
	ID        string      `json:"id"`
	ChannelID string      `json:"channel_id"`
	Author    User        `json:"author"`
	Content   string      `json:"content"`
	Embeds    []Embed     `json:"embeds"`
	Components []Component `json:"components,omitempty"`
}

// Embed is the rich-content block the game replies with.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
}

// EmbedField is a named value inside an embed.
type EmbedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EmbedImage carries the image URL of an embed (captcha challenges).
type EmbedImage struct {
	URL string `json:"url"`
}

// Component is an interactive element attached to a message.
type Component struct {
	Type       int         `json:"type"`
	CustomID   string      `json:"custom_id,omitempty"`
	Label      string      `json:"label,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// ApplicationCommand is a command descriptor from the command index.
// Only the fields the bot inspects are typed; Raw keeps the full document
// for pass-through when submitting an interaction.
type ApplicationCommand struct {
	ID      string          `json:"id"`
	Version string          `json:"version"`
	Name    string          `json:"name"`
	Type    int             `json:"type"`
	Options json.RawMessage `json:"options,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// InteractionOption is one option value submitted with a command.
type InteractionOption struct {
	Type  int    `json:"type"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}
