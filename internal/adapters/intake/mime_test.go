package intake

import (
	"net/mail"
	"reflect"
	"strings"
	"testing"
)

func parseMessage(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to parse test message: %v", err)
	}
	return msg
}

func TestExtractSubmissionPlainText(t *testing.T) {
	raw := "From: Alice Example <alice@corp.example>\r\n" +
		"Subject: Invoice attached\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Please review https://billing.example/inv/42 and https://cdn.example/logo.png today.\r\n"

	sub, err := ExtractSubmission(parseMessage(t, raw))
	if err != nil {
		t.Fatalf("ExtractSubmission returned error: %v", err)
	}

	if sub.Subject != "Invoice attached" {
		t.Errorf("Subject = %q", sub.Subject)
	}
	if sub.Sender != "Alice Example" || sub.SenderEmail != "alice@corp.example" {
		t.Errorf("sender = %q <%s>", sub.Sender, sub.SenderEmail)
	}
	wantLinks := []string{"https://billing.example/inv/42", "https://cdn.example/logo.png"}
	if !reflect.DeepEqual(sub.Links, wantLinks) {
		t.Errorf("Links = %v, want %v", sub.Links, wantLinks)
	}
}

func TestExtractSubmissionMultipart(t *testing.T) {
	raw := "From: alice@corp.example\r\n" +
		"Subject: Report\r\n" +
		"Content-Type: multipart/alternative; boundary=\"BOUND\"\r\n" +
		"\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"See https://reports.example/q3 for details.\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>See <a href=\"https://reports.example/q3\">the report</a></p>\r\n" +
		"--BOUND--\r\n"

	sub, err := ExtractSubmission(parseMessage(t, raw))
	if err != nil {
		t.Fatalf("ExtractSubmission returned error: %v", err)
	}

	if !strings.Contains(sub.Text, "See https://reports.example/q3 for details.") {
		t.Errorf("Text = %q, want the plain part", sub.Text)
	}
	if !strings.Contains(sub.HTML, "<p>See <a") {
		t.Errorf("HTML = %q, want the html part", sub.HTML)
	}
	if len(sub.Links) != 1 || sub.Links[0] != "https://reports.example/q3" {
		t.Errorf("Links = %v, want the link from the plain part only", sub.Links)
	}
}

func TestExtractSubmissionQuotedPrintable(t *testing.T) {
	raw := "From: alice@corp.example\r\n" +
		"Subject: Security notice\r\n" +
		"Content-Type: multipart/mixed; boundary=\"BOUND\"\r\n" +
		"\r\n" +
		"--BOUND\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Please verify your acc=\r\nount at https://login.example/reset=3Ftoken\r\n" +
		"--BOUND--\r\n"

	sub, err := ExtractSubmission(parseMessage(t, raw))
	if err != nil {
		t.Fatalf("ExtractSubmission returned error: %v", err)
	}

	if !strings.Contains(sub.Text, "verify your account") {
		t.Errorf("Text = %q, want the soft line break decoded", sub.Text)
	}
	if !strings.Contains(sub.Text, "https://login.example/reset?token") {
		t.Errorf("Text = %q, want =3F decoded to ?", sub.Text)
	}
}

func TestExtractSubmissionForwardedSenderOverride(t *testing.T) {
	raw := "From: Bob Forwarder <bob@corp.example>\r\n" +
		"Subject: Fwd: Your account is locked\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"---------- Forwarded message ----------\r\n" +
		"From: \"Security Team\" <alert@scam.example>\r\n" +
		"Subject: Your account is locked\r\n" +
		"\r\n" +
		"Click https://scam.example/unlock immediately.\r\n"

	sub, err := ExtractSubmission(parseMessage(t, raw))
	if err != nil {
		t.Fatalf("ExtractSubmission returned error: %v", err)
	}

	if sub.SenderEmail != "alert@scam.example" {
		t.Errorf("SenderEmail = %q, want the embedded suspect sender", sub.SenderEmail)
	}
	if sub.Sender != "Security Team" {
		t.Errorf("Sender = %q, want the embedded display name unquoted", sub.Sender)
	}
}

func TestExtractSubmissionEncodedSubject(t *testing.T) {
	raw := "From: alice@corp.example\r\n" +
		"Subject: =?ISO-8859-1?Q?Caf=E9_rendezvous?=\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"body\r\n"

	sub, err := ExtractSubmission(parseMessage(t, raw))
	if err != nil {
		t.Fatalf("ExtractSubmission returned error: %v", err)
	}

	if sub.Subject != "Café rendezvous" {
		t.Errorf("Subject = %q, want the encoded word decoded", sub.Subject)
	}
}

func TestExtractSubmissionNoLinks(t *testing.T) {
	raw := "From: alice@corp.example\r\n" +
		"Subject: Lunch\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Meeting moved to 3pm.\r\n"

	sub, err := ExtractSubmission(parseMessage(t, raw))
	if err != nil {
		t.Fatalf("ExtractSubmission returned error: %v", err)
	}

	if len(sub.Links) != 0 {
		t.Errorf("Links = %v, want none", sub.Links)
	}
}

func TestLinkRegexStopsAtDelimiters(t *testing.T) {
	text := `See (https://a.example/x) and "https://b.example/y" or <https://c.example/z>.`
	got := linkRe.FindAllString(text, -1)
	want := []string{"https://a.example/x", "https://b.example/y", "https://c.example/z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("links = %v, want %v", got, want)
	}
}
