package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/ontelworks/copscan/internal/google"
)

// Client wraps the Gmail Users service for one account.
type Client struct {
	svc     *gmail.UsersService
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the account.
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccount creates a Gmail client authenticated as the given
// account. A cached OAuth token must already exist for the account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	httpClient, err := google.GetHTTPClient(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// SearchMessages lists message ids matching a Gmail search query, paginating
// until maxResults messages have been collected or the listing is exhausted.
func (c *Client) SearchMessages(query string, maxResults int64) ([]*gmail.Message, error) {
	var messages []*gmail.Message
	pageToken := ""

	for int64(len(messages)) < maxResults {
		remaining := maxResults - int64(len(messages))
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(query).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		messages = append(messages, res.Messages...)

		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if int64(len(messages)) > maxResults {
		messages = messages[:maxResults]
	}
	return messages, nil
}

// GetFullMessage fetches a message including headers and body parts.
func (c *Client) GetFullMessage(messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// SendReport sends the run-report email and returns the sent message id.
func (c *Client) SendReport(msg *ReportMessage) (string, error) {
	raw, err := msg.Encode()
	if err != nil {
		return "", err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send report email: %w", err)
	}
	return sent.Id, nil
}
