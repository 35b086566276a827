// Package services holds the storefront use cases. Services receive their
// repositories through repository.Store and never talk to the database
// directly.
package services

import (
	"context"
	"strings"

	rabbit "chipset-komputer/internal/infra/rabbitmq"

	log "github.com/sirupsen/logrus"
)

// publishEvent sends evt after the surrounding write has committed. A broker
// failure is logged and never fails the caller.
func publishEvent(ctx context.Context, pub rabbit.PublisherInterface, routingKey string, evt interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, routingKey, evt); err != nil {
		log.WithError(err).WithField("event", routingKey).Error("failed to publish event")
		return
	}
	log.WithField("event", routingKey).Debug("event published")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
