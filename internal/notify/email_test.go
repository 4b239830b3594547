package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/connection-card/pkg/logging"
)

var welcomeFrom = From{Address: "welcome@example.org"}

func testMessage() EmailMessage {
	return EmailMessage{
		To:      "jane@x.com",
		ToName:  "Jane Doe",
		Subject: "Welcome",
		Text:    "hello",
		HTML:    "<p>hello</p>",
		Tags:    []string{"welcome"},
	}
}

func TestFromDefaults(t *testing.T) {
	from := From{Address: " welcome@example.org "}.withDefaults()
	if from.header() != "Grace Community Church <welcome@example.org>" {
		t.Fatalf("unexpected header %q", from.header())
	}

	custom := From{Address: "hi@example.org", Name: "First Baptist"}.withDefaults()
	if custom.header() != "First Baptist <hi@example.org>" {
		t.Fatalf("unexpected header %q", custom.header())
	}
}

func TestRecipientDomain(t *testing.T) {
	if got := recipientDomain("jane@x.com"); got != "x.com" {
		t.Fatalf("got %q", got)
	}
	if got := recipientDomain("nobody"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	if NewSendGridSender("", welcomeFrom, nil) != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

type fakeSendGrid struct {
	message *mail.SGMailV3
	resp    *rest.Response
	err     error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.message = email
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestSendGridSenderSend(t *testing.T) {
	api := &fakeSendGrid{resp: &rest.Response{StatusCode: 202}}
	sender := newSendGridSender(api, welcomeFrom, logging.Discard())

	if err := sender.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.message.From.Name != "Grace Community Church" || api.message.From.Address != "welcome@example.org" {
		t.Fatalf("unexpected from %+v", api.message.From)
	}
	if got := api.message.Personalizations[0].To[0].Address; got != "jane@x.com" {
		t.Fatalf("unexpected recipient %q", got)
	}
	if len(api.message.Categories) != 1 || api.message.Categories[0] != "welcome" {
		t.Fatalf("unexpected categories %v", api.message.Categories)
	}
}

func TestSendGridSenderSendFailures(t *testing.T) {
	rejected := newSendGridSender(&fakeSendGrid{resp: &rest.Response{StatusCode: 401, Body: "unauthorized"}}, welcomeFrom, logging.Discard())
	if err := rejected.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error for 401")
	}

	broken := newSendGridSender(&fakeSendGrid{err: errors.New("dial tcp: timeout")}, welcomeFrom, logging.Discard())
	if err := broken.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected transport error")
	}

	unconfigured := &SendGridSender{logger: logging.Discard()}
	if err := unconfigured.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error for nil client")
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSenderSend(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, welcomeFrom, logging.Discard())

	if err := sender.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := aws.ToString(api.input.FromEmailAddress); got != "Grace Community Church <welcome@example.org>" {
		t.Fatalf("unexpected from address %q", got)
	}
	if api.input.Destination.ToAddresses[0] != "jane@x.com" {
		t.Fatalf("unexpected recipient %v", api.input.Destination.ToAddresses)
	}
	body := api.input.Content.Simple.Body
	if aws.ToString(body.Text.Data) != "hello" || aws.ToString(body.Html.Data) != "<p>hello</p>" {
		t.Fatal("expected text and html bodies")
	}
	if len(api.input.EmailTags) != 1 || aws.ToString(api.input.EmailTags[0].Value) != "welcome" {
		t.Fatalf("unexpected tags %+v", api.input.EmailTags)
	}
}

func TestSESSenderTextOnly(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, welcomeFrom, logging.Discard())

	msg := testMessage()
	msg.HTML = ""
	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.input.Content.Simple.Body.Html != nil {
		t.Fatal("expected no html part")
	}
}

func TestSESSenderSendError(t *testing.T) {
	sender := newSESSender(&fakeSES{err: errors.New("throttled")}, From{}, logging.Discard())
	if err := sender.Send(context.Background(), EmailMessage{To: "jane@x.com"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewSESSenderNilClient(t *testing.T) {
	if NewSESSender(nil, From{}, nil) != nil {
		t.Fatal("expected nil sender without client")
	}
}

func TestStubEmailSender(t *testing.T) {
	if err := NewStubEmailSender(nil).Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
