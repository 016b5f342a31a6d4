package intake

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/phishhook/phishhook/internal/core"
)

var (
	linkRe = regexp.MustCompile(`https?://[^\s<>"'\)\]]+`)
	// "From: Display Name <user@example.com>" line embedded in a
	// forwarded message body; the outer envelope sender is the
	// forwarding user, not the suspect.
	embeddedFromRe = regexp.MustCompile(`(?m)^\s*>?\s*From:\s*(.*?)\s*<([^\s>]+@[^\s>]+)>`)
)

var wordDecoder = &mime.WordDecoder{
	CharsetReader: charsetReader,
}

// ExtractSubmission converts a raw RFC822 message into the submission
// the scan pipeline expects. For forwarded emails the suspect sender is
// recovered from the embedded From line when present.
func ExtractSubmission(msg *mail.Message) (*core.EmailSubmission, error) {
	subject := msg.Header.Get("Subject")
	if decoded, err := wordDecoder.DecodeHeader(subject); err == nil {
		subject = decoded
	}

	sub := &core.EmailSubmission{
		Subject: subject,
	}

	if addr, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		sub.Sender = addr.Name
		sub.SenderEmail = addr.Address
	}

	text, html, err := extractBody(msg)
	if err != nil {
		return nil, err
	}
	sub.Text = text
	sub.HTML = html

	// A forwarded message carries the suspect's address inside the
	// body, overriding the forwarding user's envelope sender.
	if match := embeddedFromRe.FindStringSubmatch(text); match != nil {
		sub.Sender = strings.Trim(match[1], `" `)
		sub.SenderEmail = match[2]
	}

	sub.Links = linkRe.FindAllString(text, -1)

	return sub, nil
}

// extractBody walks the message, collecting text/plain parts into text
// and text/html parts into html. Non-multipart messages are read whole.
func extractBody(msg *mail.Message) (string, string, error) {
	contentType := msg.Header.Get("Content-Type")
	body := decodePart(msg.Body, contentType, msg.Header.Get("Content-Transfer-Encoding"))

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		raw, err := io.ReadAll(body)
		if err != nil {
			return "", "", err
		}
		if strings.Contains(strings.ToLower(contentType), "text/html") {
			return "", string(raw), nil
		}
		return string(raw), "", nil
	}

	boundary, ok := params["boundary"]
	if !ok {
		raw, err := io.ReadAll(body)
		if err != nil {
			return "", "", err
		}
		return string(raw), "", nil
	}

	var text, html bytes.Buffer
	mr := multipart.NewReader(msg.Body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Return what was collected so far; a truncated trailing
			// part must not discard the parts already read.
			break
		}

		partType := strings.ToLower(part.Header.Get("Content-Type"))
		reader := decodePart(part, part.Header.Get("Content-Type"), part.Header.Get("Content-Transfer-Encoding"))

		switch {
		case strings.Contains(partType, "text/plain"), partType == "":
			if raw, err := io.ReadAll(reader); err == nil {
				text.Write(raw)
				text.WriteString("\n")
			}
		case strings.Contains(partType, "text/html"):
			if raw, err := io.ReadAll(reader); err == nil {
				html.Write(raw)
			}
		case strings.Contains(partType, "multipart/"):
			// Nested multiparts (message/rfc822 forwards wrapped again)
			// are skipped; the embedded From regex still sees the outer
			// text rendering most clients include.
			continue
		}
	}

	return text.String(), html.String(), nil
}

// decodePart layers transfer-encoding and charset decoding over a part
// body. Unknown charsets fall through undecoded rather than failing.
func decodePart(r io.Reader, contentType, transferEncoding string) io.Reader {
	if strings.EqualFold(strings.TrimSpace(transferEncoding), "quoted-printable") {
		r = quotedprintable.NewReader(r)
	}

	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if name, ok := params["charset"]; ok && !strings.EqualFold(name, "utf-8") && !strings.EqualFold(name, "us-ascii") {
			if enc, err := htmlindex.Get(name); err == nil && enc != nil {
				r = transform.NewReader(r, enc.NewDecoder())
			}
		}
	}

	return r
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
