package mlservice

import (
	"context"
	"net/http"
	"strings"
)

// TextClient writes persona texts.
type TextClient struct {
	c *Client
}

func NewTextClient(c *Client) *TextClient {
	return &TextClient{c: c}
}

// Bio asks the text service for a bio. A null text in the response yields "".
func (tc *TextClient) Bio(ctx context.Context, name, text string, topics []string) (string, error) {
	var resp bioResponse
	err := tc.c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/bio",
		Body: bioRequest{
			Data: bioData{
				Name:   name,
				Topics: strings.Join(topics, ", "),
				Text:   text,
			},
			Config: map[string]any{},
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Text == nil {
		return "", nil
	}
	return *resp.Text, nil
}
