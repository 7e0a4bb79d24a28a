package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jobdesk/backend/internal/mq"
)

type fakeAcker struct {
	acks, nacks int
	requeued    bool
	err         error
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error {
	a.acks++
	return a.err
}

func (a *fakeAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacks++
	a.requeued = requeue
	return a.err
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error {
	return a.err
}

func delivery(t *testing.T, acker *fakeAcker, event mq.RequestEvent) amqp091.Delivery {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return amqp091.Delivery{Acknowledger: acker, RoutingKey: event.Event, Body: body}
}

func TestPrintEventAcks(t *testing.T) {
	acker := &fakeAcker{}
	var out, errOut bytes.Buffer

	printEvent(&out, &errOut, delivery(t, acker, mq.RequestEvent{
		Event:     mq.EventRequestDecided,
		Reference: "ORG-2025-0001",
		Status:    "approved",
		Actor:     "HOD",
	}))

	assert.Equal(t, "request.decided\tORG-2025-0001\tapproved\tHOD\n", out.String())
	assert.Empty(t, errOut.String())
	assert.Equal(t, 1, acker.acks)
}

func TestPrintEventDropsMalformedBody(t *testing.T) {
	acker := &fakeAcker{}
	var out, errOut bytes.Buffer

	printEvent(&out, &errOut, amqp091.Delivery{Acknowledger: acker, RoutingKey: "request.created", Body: []byte("{")})

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "skip malformed event request.created")
	assert.Equal(t, 1, acker.nacks)
	assert.False(t, acker.requeued)
}

func TestPrintEventReportsAckFailures(t *testing.T) {
	acker := &fakeAcker{err: errors.New("channel closed")}
	var out, errOut bytes.Buffer

	printEvent(&out, &errOut, delivery(t, acker, mq.RequestEvent{Event: mq.EventRequestCreated, Reference: "ORG-2025-0002"}))
	assert.Contains(t, errOut.String(), "ack request.created ORG-2025-0002: channel closed")

	errOut.Reset()
	printEvent(&out, &errOut, amqp091.Delivery{Acknowledger: acker, RoutingKey: "request.created", Body: []byte("nope")})
	assert.Contains(t, errOut.String(), "nack request.created: channel closed")
}
