// Package client is the typed facade over the distribution channel: it
// unseals property credentials, builds envelopes through the codec, posts
// them and decodes the responses. Reservation fetches are retried on
// transport failures; availability pushes and acknowledgements are not.
package client

import (
	"context"
	"time"

	"staysync/internal/channel/codec"
	pkgclient "staysync/pkg/client"
	"staysync/pkg/config"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/model"
	"staysync/pkg/sealer"
)

// XMLPoster is the raw transport the facade posts envelopes through.
type XMLPoster interface {
	PostXML(ctx context.Context, path string, body []byte) ([]byte, error)
}

type Client struct {
	transport XMLPoster
	sealer    *sealer.Sealer

	fetchPath string
	availPath string
	ackPath   string

	fetchRetry pkgclient.RetryPolicy
}

func New(cfg *config.Config, seal *sealer.Sealer) *Client {
	return &Client{
		transport: pkgclient.NewChannelHTTP(cfg.ChannelBaseURL, cfg.ChannelHTTPTimeout),
		sealer:    seal,
		fetchPath: cfg.ChannelFetchPath,
		availPath: cfg.ChannelAvailPath,
		ackPath:   cfg.ChannelAckPath,
		fetchRetry: pkgclient.RetryPolicy{
			MaxAttempts: cfg.FetchMaxAttempts,
			Backoff:     cfg.FetchBackoff,
		},
	}
}

func (c *Client) password(prop *model.ChannelProperty) (string, error) {
	password, err := c.sealer.Open(prop.SealedPassword)
	if err != nil {
		return "", syncerrors.FatalValidation("property credentials cannot be unsealed").WithDetails(map[string]any{
			"property_id": prop.ID,
		})
	}
	return password, nil
}

// FetchReservations retrieves the pending reservation batch for one
// property. Transport failures are retried with backoff; a protocol error
// from the channel aborts immediately.
func (c *Client) FetchReservations(ctx context.Context, prop *model.ChannelProperty) ([]model.ExternalReservation, error) {
	password, err := c.password(prop)
	if err != nil {
		return nil, err
	}

	body, err := codec.BuildFetchRequest(prop, password)
	if err != nil {
		return nil, syncerrors.Internal("failed to build fetch request", err)
	}

	var reservations []model.ExternalReservation
	_, err = c.fetchRetry.Do(ctx, func(ctx context.Context) error {
		respBody, postErr := c.transport.PostXML(ctx, c.fetchPath, body)
		if postErr != nil {
			return postErr
		}
		reservations, postErr = codec.ParseReservationBatch(respBody)
		return postErr
	})
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// PushAvailability sends one booking-limit update for a single day and room
// type. Single attempt: the scheduler re-enqueues failed pushes.
func (c *Client) PushAvailability(ctx context.Context, prop *model.ChannelProperty, roomTypeCode string, day time.Time, bookingLimit int) error {
	password, err := c.password(prop)
	if err != nil {
		return err
	}

	body, err := codec.BuildAvailabilityRequest(prop, password, roomTypeCode, day, bookingLimit)
	if err != nil {
		return syncerrors.Internal("failed to build availability request", err)
	}

	respBody, err := c.transport.PostXML(ctx, c.availPath, body)
	if err != nil {
		return err
	}
	return codec.ParseGenericResponse(respBody)
}

// AckReservations confirms receipt of the given reservation ids so the
// channel stops re-delivering them. Called only after local persistence
// has committed.
func (c *Client) AckReservations(ctx context.Context, prop *model.ChannelProperty, reservationIDs []string) error {
	if len(reservationIDs) == 0 {
		return nil
	}

	password, err := c.password(prop)
	if err != nil {
		return err
	}

	body, err := codec.BuildAckRequest(prop, password, reservationIDs)
	if err != nil {
		return syncerrors.Internal("failed to build acknowledgement request", err)
	}

	respBody, err := c.transport.PostXML(ctx, c.ackPath, body)
	if err != nil {
		return err
	}
	return codec.ParseGenericResponse(respBody)
}
