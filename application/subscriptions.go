package application

import (
	"context"

	"courtline/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// PropLineUpdatedSubject is the message-bus subject carrying sportsbook
// line movements
const PropLineUpdatedSubject = "props.line.updated"

// RegisterSubscriptions wires the message-bus subjects to their handlers
func RegisterSubscriptions(subscriber interfaces.MessageSubscriber, lineUpdates *LineUpdateHandler) error {
	if err := subscriber.Subscribe(PropLineUpdatedSubject, func(data []byte) error {
		return lineUpdates.HandleLineUpdate(context.Background(), data)
	}); err != nil {
		return err
	}

	log.WithField("subject", PropLineUpdatedSubject).Info("Registered line update subscription")
	return nil
}
