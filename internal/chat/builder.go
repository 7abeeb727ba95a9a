package chat

import (
	"errors"

	"github.com/wtask/filechat/internal/chat/broker"
)

// BrokerBuilder - helps to build custom broker.Broker with required dependencies (channels)
type BrokerBuilder func(
	join chan<- broker.JoinEvent,
	part chan<- broker.PartEvent,
) (*broker.Broker, error)

// DefaultBroker - returns builder of broker.Broker over server directory.
// Both event-channels are required. Trace logger is optional and receives every processed command.
func DefaultBroker(files broker.Storage, chunkSize int, logger, trace Logger) BrokerBuilder {
	return func(
		join chan<- broker.JoinEvent,
		part chan<- broker.PartEvent,
	) (*broker.Broker, error) {
		if files == nil {
			return nil, errors.New("chat.DefaultBroker: storage is required")
		}
		if join == nil {
			return nil, errors.New("chat.DefaultBroker: broker.JoinEvent chan is required")
		}
		if part == nil {
			return nil, errors.New("chat.DefaultBroker: broker.PartEvent chan is required")
		}
		// nil options are skipped by broker
		var logging, tracing func(*broker.Broker) error
		if logger != nil {
			logging = broker.WithLogger(logger)
		}
		if trace != nil {
			tracing = broker.WithTrace(trace)
		}
		return broker.New(
			files,
			broker.WithJoinChan(join),
			broker.WithPartChan(part),
			broker.WithBufferSize(1024),
			broker.WithChunkSize(chunkSize),
			logging,
			tracing,
		)
	}
}
