package delivery

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/momentum-app/momentum-api/internal/config"
)

// SMSDriver sends plain SMS via AWS SNS, for deployments without a Twilio
// WhatsApp sender.
type SMSDriver struct {
	client *sns.Client
}

func NewSMSDriver(cfg *config.Config) (*SMSDriver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &SMSDriver{client: sns.NewFromConfig(awsCfg)}, nil
}

func (d *SMSDriver) Channel() Channel { return ChannelSMS }

func (d *SMSDriver) Send(ctx context.Context, to, body string) (string, error) {
	out, err := d.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &body,
	})
	if err != nil {
		return "", deliveryErr("sns", err)
	}
	if out.MessageId != nil {
		return *out.MessageId, nil
	}
	return "", nil
}
