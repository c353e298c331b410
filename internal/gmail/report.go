package gmail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Attachment is one file attached to the run-report email.
type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

// ReportMessage is the run-report email: an HTML body plus attachments.
type ReportMessage struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Encode renders the message as a base64url-encoded RFC 2822 multipart/mixed
// message, ready for the Gmail send API.
func (m *ReportMessage) Encode() (string, error) {
	if len(m.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if m.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)

	buf.WriteString("To: " + strings.Join(m.To, ", ") + "\r\n")
	buf.WriteString("Subject: " + encodeRFC2047(m.Subject) + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: multipart/mixed; boundary=\"" + mw.Boundary() + "\"\r\n")
	buf.WriteString("\r\n")

	// HTML body part
	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", `text/html; charset="UTF-8"`)
	part, err := mw.CreatePart(bodyHeader)
	if err != nil {
		return "", fmt.Errorf("failed to create body part: %w", err)
	}
	if _, err := part.Write([]byte(m.HTMLBody)); err != nil {
		return "", err
	}

	for _, att := range m.Attachments {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", att.MimeType)
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
		part, err := mw.CreatePart(header)
		if err != nil {
			return "", fmt.Errorf("failed to create attachment part %s: %w", att.Filename, err)
		}
		if _, err := part.Write(wrapBase64(att.Data)); err != nil {
			return "", err
		}
	}

	if err := mw.Close(); err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString([]byte(buf.String())), nil
}

// encodeRFC2047 encodes a header value per RFC 2047 when it contains
// non-ASCII characters, and returns it unchanged otherwise.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// wrapBase64 encodes data as base64 with 76-character lines per RFC 2045.
func wrapBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	const lineLen = 76
	var out strings.Builder
	for len(encoded) > lineLen {
		out.WriteString(encoded[:lineLen])
		out.WriteString("\r\n")
		encoded = encoded[lineLen:]
	}
	out.WriteString(encoded)
	return []byte(out.String())
}
