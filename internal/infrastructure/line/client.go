package line

import (
	"context"
	"fmt"
	"plantreminder/internal/domain/entity"
	appErrors "plantreminder/internal/pkg/errors"
	"plantreminder/internal/pkg/logger"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Client wraps the linebot.Client and pushes watering reminders to a single recipient.
type Client struct {
	*linebot.Client
	recipient string
	log       logger.Logger
}

// NewClient creates a LINE Bot client for the given channel credentials.
// recipient is the user, group or room ID reminders are pushed to.
func NewClient(channelSecret, channelToken, recipient string, log logger.Logger, options ...linebot.ClientOption) (*Client, error) {
	if channelSecret == "" || channelToken == "" || recipient == "" {
		return nil, fmt.Errorf("LINE channel secret, access token and recipient must be set")
	}

	bot, err := linebot.New(channelSecret, channelToken, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE Bot client: %w", err)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{
		Client:    bot,
		recipient: recipient,
		log:       log,
	}, nil
}

// PushMessages sends one or more messages to the configured recipient using the PushMessage API.
func (c *Client) PushMessages(ctx context.Context, messages ...linebot.SendingMessage) error {
	_, err := c.PushMessage(c.recipient, messages...).WithContext(ctx).Do()
	if err != nil {
		return err
	}
	c.log.Debug("Successfully sent push message.")
	return nil
}

// Deliver pushes a fired watering notification as a text message.
func (c *Client) Deliver(ctx context.Context, payload entity.NotificationPayload) error {
	text := fmt.Sprintf("%s\n%s", payload.Title, payload.Body)
	if err := c.PushMessages(ctx, linebot.NewTextMessage(text)); err != nil {
		return fmt.Errorf("%w: plant %s: %v", appErrors.ErrDelivery, payload.PlantID, err)
	}
	c.log.Info(fmt.Sprintf("Pushed watering reminder for plant %s", payload.PlantID))
	return nil
}
