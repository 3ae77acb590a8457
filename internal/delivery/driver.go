// Package delivery wraps the external messaging providers behind a single
// driver interface so the dispatcher and the API never talk to a provider
// SDK directly.
package delivery

import (
	"context"
	"fmt"

	"github.com/momentum-app/momentum-api/internal/config"
	"github.com/momentum-app/momentum-api/internal/domain"
	"github.com/rs/zerolog"
)

type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelLog      Channel = "log"
)

// Driver sends one message to one recipient. The returned string is the
// provider's response (message SID or equivalent) for the audit log.
// Failures are wrapped around domain.ErrDelivery; callers must treat them
// as per-recipient and never abort a dispatch loop on one.
type Driver interface {
	Send(ctx context.Context, to, body string) (string, error)
	Channel() Channel
}

// Registry holds all configured delivery drivers.
type Registry struct {
	drivers map[Channel]Driver
}

func NewRegistry() *Registry {
	return &Registry{drivers: make(map[Channel]Driver)}
}

func (r *Registry) Register(d Driver) {
	r.drivers[d.Channel()] = d
}

func (r *Registry) Get(ch Channel) (Driver, error) {
	d, ok := r.drivers[ch]
	if !ok {
		return nil, fmt.Errorf("no driver registered for channel: %s", ch)
	}
	return d, nil
}

// FromConfig builds the registry from config and returns the driver for the
// configured channel. The log driver is always registered; Twilio and SNS
// only when their credentials are present. When the configured channel has
// no driver, the log stub is returned so the pipeline keeps working in dev.
func FromConfig(cfg *config.Config, log zerolog.Logger) (*Registry, Driver) {
	r := NewRegistry()
	r.Register(NewLogDriver(log))

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		r.Register(NewWhatsAppDriver(cfg))
	}
	if cfg.SNSRegion != "" {
		if d, err := NewSMSDriver(cfg); err == nil {
			r.Register(d)
		} else {
			log.Warn().Err(err).Msg("SNS driver not available")
		}
	}

	d, err := r.Get(Channel(cfg.DeliveryChannel))
	if err != nil {
		log.Warn().Str("channel", cfg.DeliveryChannel).Msg("delivery channel not configured, falling back to log driver")
		d, _ = r.Get(ChannelLog)
	}
	return r, d
}

// LogDriver only logs the message instead of delivering it. Development
// default, so the pipeline runs without provider credentials.
type LogDriver struct {
	log zerolog.Logger
}

func NewLogDriver(log zerolog.Logger) *LogDriver {
	return &LogDriver{log: log}
}

func (d *LogDriver) Channel() Channel { return ChannelLog }

func (d *LogDriver) Send(_ context.Context, to, body string) (string, error) {
	d.log.Info().Str("to", to).Str("body", body).Msg("log driver: message not actually delivered")
	return "logged", nil
}

func deliveryErr(provider string, err error) error {
	return fmt.Errorf("%s: %s: %w", provider, err.Error(), domain.ErrDelivery)
}
