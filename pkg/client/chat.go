package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/studyhall/pkg/domain"
)

const (
	pathNewChat         = "/chat/new-chat"
	pathChats           = "/chat/chats"
	pathStudentResponse = "/chat/student-response"
	pathConversation    = "/chat/conversation/"
)

// NewChat opens an empty chat and returns its id.
func (c *Client) NewChat(ctx context.Context) (string, error) {
	token, err := c.authorized()
	if err != nil {
		return "", fmt.Errorf("client.NewChat: %w", err)
	}
	fields, err := c.doJSON(ctx, http.MethodPost, pathNewChat, nil, token)
	if err != nil {
		return "", fmt.Errorf("client.NewChat: %w", err)
	}
	var id string
	if err := decodeField(fields, "chatId", &id); err != nil {
		return "", fmt.Errorf("client.NewChat: %w", err)
	}
	return id, nil
}

// Chats lists the ids of the signed-in user's chats, oldest first.
func (c *Client) Chats(ctx context.Context) ([]string, error) {
	token, err := c.authorized()
	if err != nil {
		return nil, fmt.Errorf("client.Chats: %w", err)
	}
	fields, err := c.doJSON(ctx, http.MethodGet, pathChats, nil, token)
	if err != nil {
		return nil, fmt.Errorf("client.Chats: %w", err)
	}
	// A user without chats gets null.
	var ids []string
	if err := decodeField(fields, "chatIds", &ids); err != nil {
		return nil, fmt.Errorf("client.Chats: %w", err)
	}
	return ids, nil
}

// Ask sends prompt to the student agent of chatID and returns its answer.
func (c *Client) Ask(ctx context.Context, chatID, prompt string) (string, error) {
	token, err := c.authorized()
	if err != nil {
		return "", fmt.Errorf("client.Ask: %w", err)
	}
	body := domain.Prompt{ChatID: chatID, Prompt: prompt}
	fields, err := c.doJSON(ctx, http.MethodPost, pathStudentResponse, body, token)
	if err != nil {
		return "", fmt.Errorf("client.Ask: %w", err)
	}
	var answer string
	if err := decodeField(fields, "response", &answer); err != nil {
		return "", fmt.Errorf("client.Ask: %w", err)
	}
	return answer, nil
}

// Conversation fetches every message of chatID.
func (c *Client) Conversation(ctx context.Context, chatID string) (domain.Conversation, error) {
	token, err := c.authorized()
	if err != nil {
		return nil, fmt.Errorf("client.Conversation: %w", err)
	}
	fields, err := c.doJSON(ctx, http.MethodGet, pathConversation+url.PathEscape(chatID), nil, token)
	if err != nil {
		return nil, fmt.Errorf("client.Conversation: %w", err)
	}
	var conv domain.Conversation
	if err := decodeField(fields, "conversation", &conv); err != nil {
		return nil, fmt.Errorf("client.Conversation: %w", err)
	}
	return conv, nil
}
