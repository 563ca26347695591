package domain

import (
	"encoding/json"
	"fmt"
)

// Command is a one-way message from the offline controller to the cache worker.
// The set of implementations is closed: DownloadCommand and DeleteCommand.
type Command interface {
	Item() string
	MediaURL() string
	command()
}

// DownloadCommand asks the worker to fetch URL and store the response under it.
type DownloadCommand struct {
	ItemID string
	URL    string
}

// DeleteCommand asks the worker to drop the cache entry keyed by URL.
type DeleteCommand struct {
	ItemID string
	URL    string
}

func (c DownloadCommand) Item() string     { return c.ItemID }
func (c DownloadCommand) MediaURL() string { return c.URL }
func (DownloadCommand) command()           {}

func (c DeleteCommand) Item() string     { return c.ItemID }
func (c DeleteCommand) MediaURL() string { return c.URL }
func (DeleteCommand) command()           {}

const (
	MessageDownload = "DOWNLOAD"
	MessageDelete   = "DELETE"
)

// Message is the wire envelope of a Command.
type Message struct {
	Type    string         `json:"type"`
	Payload MessagePayload `json:"payload"`
}

type MessagePayload struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func EncodeCommand(cmd Command) ([]byte, error) {
	var msg Message
	switch c := cmd.(type) {
	case DownloadCommand:
		msg = Message{Type: MessageDownload, Payload: MessagePayload{ID: c.ItemID, URL: c.URL}}
	case DeleteCommand:
		msg = Message{Type: MessageDelete, Payload: MessagePayload{ID: c.ItemID, URL: c.URL}}
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidCommand, cmd)
	}
	return json.Marshal(msg)
}

func DecodeCommand(data []byte) (Command, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	if msg.Payload.URL == "" {
		return nil, fmt.Errorf("%w: missing payload url", ErrInvalidCommand)
	}

	switch msg.Type {
	case MessageDownload:
		return DownloadCommand{ItemID: msg.Payload.ID, URL: msg.Payload.URL}, nil
	case MessageDelete:
		return DeleteCommand{ItemID: msg.Payload.ID, URL: msg.Payload.URL}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, msg.Type)
	}
}
