package submitter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octabyte/bm-tasksubmit/queue"
	"github.com/octabyte/bm-tasksubmit/task"
	ctxutil "github.com/octabyte/bm-tasksubmit/utils/context"
	"github.com/octabyte/bm-tasksubmit/utils/logger"
)

// DefaultQueue is the queue the audio removal worker consumes from.
const DefaultQueue = "audio_removal_queue"

// Broker opens broker sessions.
type Broker interface {
	Open(ctx context.Context) (Session, error)
}

// Session is a connection and channel scoped to one submission.
type Session interface {
	DeclareQueue(config queue.Config) (queue.Queue, error)
	Publish(ctx context.Context, config queue.PublishConfig, msg queue.Message) error
	Close() error
}

// Submitter publishes task descriptors to durable queues.
// It holds no per-call state and is safe for concurrent use.
type Submitter struct {
	broker  Broker
	timeout time.Duration
	appID   string
	now     func() time.Time
	newID   func() string
}

type Option func(*Submitter)

// WithTimeout bounds a whole submission, from dial to confirm.
func WithTimeout(d time.Duration) Option {
	return func(s *Submitter) {
		s.timeout = d
	}
}

// WithAppID stamps messages with the given application id.
func WithAppID(appID string) Option {
	return func(s *Submitter) {
		s.appID = appID
	}
}

func New(broker Broker, opts ...Option) *Submitter {
	s := &Submitter{
		broker:  broker,
		timeout: queue.DefaultTimeout,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit publishes d to target and returns nil only after the broker has
// confirmed the message. The descriptor is encoded before the broker is
// contacted, so an invalid descriptor leaves no trace on the broker.
// The connection and channel are released on every path. target is always
// declared durable, whatever its Durable field says.
func (s *Submitter) Submit(ctx context.Context, d task.Descriptor, target queue.Config) error {
	body, err := task.Encode(d)
	if err != nil {
		return err
	}

	target.Durable = true

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	session, err := s.broker.Open(ctx)
	if err != nil {
		logger.LogError("broker unavailable", logger.Filename(d.Filename), zap.String("queue", target.Name), zap.Error(err))
		return err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.LogWarn("failed to release broker session", zap.String("queue", target.Name), zap.Error(cerr))
		}
	}()

	if _, err := session.DeclareQueue(target); err != nil {
		logger.LogError("queue declaration failed", zap.String("queue", target.Name), zap.Error(err))
		return err
	}

	msg := queue.Message{
		Body:          body,
		MessageID:     s.newID(),
		CorrelationID: ctxutil.GetCorrelationIDFromContext(ctx),
		Timestamp:     s.now().UTC(),
	}

	publishCfg := queue.PersistentJSON(target.Name)
	publishCfg.AppID = s.appID

	if err := session.Publish(ctx, publishCfg, msg); err != nil {
		logger.LogError("task not confirmed", logger.Filename(d.Filename), zap.String("queue", target.Name), zap.Error(err))
		return err
	}

	logger.LogInfo("task submitted",
		logger.Filename(d.Filename),
		zap.String("queue", target.Name),
		zap.String("message_id", msg.MessageID),
	)
	return nil
}
