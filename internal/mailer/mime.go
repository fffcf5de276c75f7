package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"sort"
	"strings"
	"time"
)

func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), addr)
}

func newMessageID(domain string) string {
	return fmt.Sprintf("<%s@%s>", randomHex(12), domain)
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// buildMIMEMessage renders e as an RFC 5322 message. When both bodies are
// set it emits multipart/alternative with the text part first.
func buildMIMEMessage(e Email, messageIDDomain string, now time.Time) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }

	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", newMessageID(messageIDDomain))
	header("From", formatAddress(e.FromName, e.From))
	header("To", strings.Join(e.To, ", "))
	if len(e.Cc) > 0 {
		header("Cc", strings.Join(e.Cc, ", "))
	}
	header("Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	header("MIME-Version", "1.0")

	keys := make([]string, 0, len(e.Headers))
	for k, v := range e.Headers {
		if k != "" && v != "" && !strings.ContainsAny(k+v, "\r\n") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		header(k, e.Headers[k])
	}

	switch {
	case e.TextBody != "" && e.HTMLBody != "":
		boundary := "alt-" + randomHex(12)
		header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
		b.WriteString("\r\n")
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		writePart(&b, "text/plain", e.TextBody)
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		writePart(&b, "text/html", e.HTMLBody)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	case e.HTMLBody != "":
		writePart(&b, "text/html", e.HTMLBody)
	default:
		writePart(&b, "text/plain", e.TextBody)
	}
	return b.String(), nil
}

func writePart(b *strings.Builder, contentType, body string) {
	fmt.Fprintf(b, "Content-Type: %s; charset=UTF-8\r\n", contentType)
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\r\n")
	}
}
