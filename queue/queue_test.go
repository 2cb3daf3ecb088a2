package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RabbitMQTestSuite struct {
	suite.Suite
	ctx       context.Context
	container tContainer.Container
	config    ConnectionConfig
}

func (s *RabbitMQTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("broker integration tests need docker")
	}

	s.ctx = context.Background()

	req := tContainer.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{"5672/tcp", "15672/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Server startup complete"),
			wait.ForListeningPort("5672/tcp"),
		),
	}
	container, err := tContainer.GenericContainer(s.ctx, tContainer.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)

	s.container = container
	s.refreshConfig()
}

func (s *RabbitMQTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

// refreshConfig reads the mapped port, which changes when the container restarts.
func (s *RabbitMQTestSuite) refreshConfig() {
	host, err := s.container.Host(s.ctx)
	s.Require().NoError(err)

	port, err := s.container.MappedPort(s.ctx, "5672")
	s.Require().NoError(err)

	s.config = ConnectionConfig{
		URI:            fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()),
		Timeout:        5 * time.Second,
		ConnectionName: "queue-test",
	}
}

func (s *RabbitMQTestSuite) open() *Session {
	session, err := Open(s.ctx, s.config)
	s.Require().NoError(err)
	return session
}

func (s *RabbitMQTestSuite) TestDeclareIsIdempotent() {
	session := s.open()
	defer session.Close()

	cfg := DurableQueue("test.idempotent")

	_, err := session.DeclareQueue(cfg)
	s.Require().NoError(err)

	_, err = session.DeclareQueue(cfg)
	s.Require().NoError(err)
}

func (s *RabbitMQTestSuite) TestDeclareWithConflictingDurability() {
	session := s.open()
	defer session.Close()

	_, err := session.DeclareQueue(DurableQueue("test.conflict"))
	s.Require().NoError(err)

	conflicting := s.open()
	defer conflicting.Close()

	_, err = conflicting.DeclareQueue(Config{Name: "test.conflict", Durable: false})
	s.Require().Error(err)
	s.ErrorIs(err, ErrDeclaration)
	s.Equal(amqp.PreconditionFailed, ReplyCode(err))
}

func (s *RabbitMQTestSuite) TestPublishInspectFetch() {
	session := s.open()
	defer session.Close()

	q, err := session.DeclareQueue(DurableQueue("test.jobs"))
	s.Require().NoError(err)
	s.Equal(0, q.Messages)

	err = session.Publish(s.ctx, PersistentJSON(q.Name), Message{
		Body:      []byte(`{"filename":"hello.mp4"}`),
		MessageID: "msg-1",
	})
	s.Require().NoError(err)

	state, err := session.Inspect(q.Name)
	s.Require().NoError(err)
	s.Equal(1, state.Messages)

	msg, err := session.Channel().Fetch(q.Name)
	s.Require().NoError(err)
	s.Require().NotNil(msg)
	s.JSONEq(`{"filename":"hello.mp4"}`, string(msg.Body))
	s.Equal(amqp.Persistent, msg.DeliveryMode)
	s.Equal("msg-1", msg.MessageId)
	s.Equal(ContentTypeJSON, msg.ContentType)

	msg, err = session.Channel().Fetch(q.Name)
	s.Require().NoError(err)
	s.Nil(msg)
}

func (s *RabbitMQTestSuite) TestPublishUnroutable() {
	session := s.open()
	defer session.Close()

	err := session.Publish(s.ctx, PersistentJSON("test.never-declared"), Message{Body: []byte("x")})
	s.Require().Error(err)
	s.ErrorIs(err, ErrPublish)
}

func (s *RabbitMQTestSuite) TestInspectMissingQueue() {
	session := s.open()
	defer session.Close()

	_, err := session.Inspect("test.missing")
	s.Require().Error(err)
	s.ErrorIs(err, ErrDeclaration)
	s.Equal(amqp.NotFound, ReplyCode(err))
}

func (s *RabbitMQTestSuite) TestPersistentMessageSurvivesRestart() {
	session := s.open()
	q, err := session.DeclareQueue(DurableQueue("test.durable"))
	s.Require().NoError(err)
	s.Require().NoError(session.Publish(s.ctx, PersistentJSON(q.Name), Message{Body: []byte(`{"filename":"restart.mp4"}`)}))
	s.Require().NoError(session.Close())

	timeout := 30 * time.Second
	s.Require().NoError(s.container.Stop(s.ctx, &timeout))
	s.Require().NoError(s.container.Start(s.ctx))
	s.refreshConfig()

	var restarted *Session
	s.Require().Eventually(func() bool {
		restarted, err = Open(s.ctx, s.config)
		return err == nil
	}, 60*time.Second, time.Second)
	defer restarted.Close()

	state, err := restarted.Inspect(q.Name)
	s.Require().NoError(err)
	s.Equal(1, state.Messages)

	msg, err := restarted.Channel().Fetch(q.Name)
	s.Require().NoError(err)
	s.Require().NotNil(msg)
	s.JSONEq(`{"filename":"restart.mp4"}`, string(msg.Body))
}

func TestRabbitMQSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQTestSuite))
}
