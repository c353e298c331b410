package gmail

import (
	"encoding/base64"
	"net/mail"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// Email is the flattened form of a Gmail message that the pipeline stores.
type Email struct {
	MessageID    string
	ThreadID     string
	Sender       string // raw From header
	SenderName   string
	SenderEmail  string
	RecipientsTo []string
	RecipientsCc []string
	Subject      string
	ReceivedAt   time.Time
	HTMLBody     string
	Headers      map[string]string
	Labels       []string
}

// ParseMessage flattens a raw Gmail API message into an Email. The body
// prefers text/html and falls back to text/plain, since some senders mail
// the report as plain text.
func ParseMessage(msg *gmail.Message) *Email {
	headers := make(map[string]string)
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			headers[h.Name] = h.Value
		}
	}

	subject := headers["Subject"]
	if subject == "" {
		subject = "(no subject)"
	}

	from := headers["From"]
	senderName, senderEmail := parseSender(from)

	body := ExtractBody(msg.Payload, "text/html")
	if body == "" {
		body = ExtractBody(msg.Payload, "text/plain")
	}

	return &Email{
		MessageID:    msg.Id,
		ThreadID:     msg.ThreadId,
		Sender:       from,
		SenderName:   senderName,
		SenderEmail:  senderEmail,
		RecipientsTo: parseAddressList(headers["To"]),
		RecipientsCc: parseAddressList(headers["Cc"]),
		Subject:      subject,
		ReceivedAt:   time.UnixMilli(msg.InternalDate).UTC(),
		HTMLBody:     body,
		Headers:      headers,
		Labels:       msg.LabelIds,
	}
}

// ExtractBody walks the MIME part tree and returns the decoded content of
// the first part with the given mime type, or "".
func ExtractBody(payload *gmail.MessagePart, mimeType string) string {
	var body string
	walkParts(payload, func(part *gmail.MessagePart) {
		if body == "" && part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
			body = decodeBody(part.Body.Data)
		}
	})
	return body
}

// decodeBody decodes base64url body data, falling back to standard base64.
// The Gmail API uses RFC 4648 base64url, but some proxied payloads arrive
// standard-encoded.
func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}

// walkParts visits every part of a message payload, depth-first.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, sub := range part.Parts {
		walkParts(sub, fn)
	}
}

// parseSender splits "Display Name <email@domain.com>" into name and
// address. On unparseable input the whole header is returned as the address.
func parseSender(from string) (name, address string) {
	if from == "" {
		return "", ""
	}
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return "", strings.TrimSpace(from)
	}
	return strings.TrimSpace(addr.Name), strings.TrimSpace(addr.Address)
}

// parseAddressList parses a To/Cc header into a list of bare addresses.
// Unparseable entries are dropped rather than failing the whole message.
func parseAddressList(header string) []string {
	if header == "" {
		return nil
	}
	addrs, err := mail.ParseAddressList(header)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.Address != "" {
			out = append(out, a.Address)
		}
	}
	return out
}
