package delivery

import (
	"context"

	"github.com/momentum-app/momentum-api/internal/config"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppDriver sends WhatsApp messages through the Twilio Messages API.
type WhatsAppDriver struct {
	client *twilio.RestClient
	from   string
}

func NewWhatsAppDriver(cfg *config.Config) *WhatsAppDriver {
	// The Twilio SDK has no per-call context; the HTTP timeout on the base
	// client bounds every Send so one slow call cannot stall a dispatch tick.
	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(cfg.TwilioAccountSID, cfg.TwilioAuthToken),
	}
	base.SetTimeout(cfg.DeliveryTimeout)

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
		Client:   base,
	})
	return &WhatsAppDriver{client: rest, from: cfg.TwilioWhatsAppFrom}
}

func (d *WhatsAppDriver) Channel() Channel { return ChannelWhatsApp }

func (d *WhatsAppDriver) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom("whatsapp:" + d.from)
	params.SetTo("whatsapp:" + to)
	params.SetBody(body)

	msg, err := d.client.Api.CreateMessage(params)
	if err != nil {
		return "", deliveryErr("twilio", err)
	}
	if msg.Sid != nil {
		return *msg.Sid, nil
	}
	return "", nil
}
