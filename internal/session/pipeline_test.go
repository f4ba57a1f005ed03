package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/executor"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/format"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/metrics"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/translator"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(tr Translator) *Pipeline {
	m := metrics.New()
	return NewPipeline(tr, executor.New(zerolog.Nop(), m), zerolog.Nop(), m)
}

func TestTurnLeaseQuery(t *testing.T) {
	router := &fakeRouter{records: []models.Record{
		{{Key: "mac-address", Value: "AA:BB"}, {Key: "status", Value: "bound"}},
		{{Key: "mac-address", Value: "CC:DD"}, {Key: "status", Value: "waiting"}},
	}}
	tr := &fakeTranslator{desc: models.NewCommandDescriptor(models.PathDHCPLease, nil)}
	sess := New("s1", router, "key-1")

	reply, err := newTestPipeline(tr).Turn(context.Background(), sess, "  how many clients are online?  ")
	require.NoError(t, err)

	assert.Contains(t, reply, "Found 1 active client(s) online.")
	assert.Contains(t, reply, "Mac Address: CC:DD")
	assert.Equal(t, []string{models.PathDHCPLease}, router.queries)
	assert.Equal(t, []string{"key-1"}, tr.creds)

	turns := sess.Transcript.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, models.RoleAssistant, turns[0].Role)
	assert.Equal(t, Greeting, turns[0].Content)
	assert.Equal(t, models.ChatTurn{Role: models.RoleUser, Content: "how many clients are online?", Time: turns[1].Time}, turns[1])
	assert.Equal(t, models.RoleAssistant, turns[2].Role)
	assert.Equal(t, reply, turns[2].Content)
}

func TestTurnTranslationFailure(t *testing.T) {
	router := &fakeRouter{}
	tr := &fakeTranslator{err: &translator.Error{Kind: translator.KindMalformedReply, Err: errors.New("no JSON object in reply")}}
	sess := New("s1", router, "key")

	reply, err := newTestPipeline(tr).Turn(context.Background(), sess, "make coffee")
	require.NoError(t, err)

	expected := fmt.Sprintf("%s\n\n%s",
		(&translator.Error{Kind: translator.KindMalformedReply}).UserMessage(),
		executor.MsgNoCommand)
	assert.Equal(t, expected, reply)
	assert.Empty(t, router.queries)
	assert.Equal(t, 3, sess.Transcript.Len())
}

func TestTurnRebootIsGuarded(t *testing.T) {
	router := &fakeRouter{}
	tr := &fakeTranslator{desc: models.NewCommandDescriptor(models.PathReboot, nil)}
	sess := New("s1", router, "key")

	reply, err := newTestPipeline(tr).Turn(context.Background(), sess, "reboot the router")
	require.NoError(t, err)

	assert.Equal(t, executor.MsgRebootGuard, reply)
	assert.Empty(t, router.queries)
	assert.Zero(t, router.reboots)
}

func TestTurnQueryError(t *testing.T) {
	router := &fakeRouter{err: errors.New("i/o timeout")}
	tr := &fakeTranslator{desc: models.NewCommandDescriptor("/interface", nil)}
	sess := New("s1", router, "key")

	reply, err := newTestPipeline(tr).Turn(context.Background(), sess, "list interfaces")
	require.NoError(t, err)
	assert.Equal(t, "An error occurred while executing the command: i/o timeout", reply)
}

func TestTurnEmptyResult(t *testing.T) {
	tr := &fakeTranslator{desc: models.NewCommandDescriptor("/ip/firewall/filter", nil)}
	sess := New("s1", &fakeRouter{}, "key")

	reply, err := newTestPipeline(tr).Turn(context.Background(), sess, "show firewall rules")
	require.NoError(t, err)
	assert.Equal(t, format.MsgNoResults, reply)
}

func TestTurnGates(t *testing.T) {
	tr := &fakeTranslator{desc: models.NewCommandDescriptor("/log", nil)}
	p := newTestPipeline(tr)

	t.Run("empty input", func(t *testing.T) {
		sess := New("s1", &fakeRouter{}, "key")
		_, err := p.Turn(context.Background(), sess, "   ")
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.Equal(t, 1, sess.Transcript.Len())
	})

	t.Run("no router", func(t *testing.T) {
		sess := New("s1", nil, "key")
		_, err := p.Turn(context.Background(), sess, "show logs")
		assert.ErrorIs(t, err, ErrNotConnected)
		assert.Equal(t, 1, sess.Transcript.Len())
	})

	t.Run("closed router", func(t *testing.T) {
		router := &fakeRouter{closed: true}
		sess := New("s1", router, "key")
		_, err := p.Turn(context.Background(), sess, "show logs")
		assert.ErrorIs(t, err, ErrNotConnected)
		assert.Empty(t, router.queries)
	})

	assert.Zero(t, tr.calls)
}

func TestReboot(t *testing.T) {
	router := &fakeRouter{}
	sess := New("s1", router, "key")
	p := newTestPipeline(&fakeTranslator{})

	require.NoError(t, p.Reboot(context.Background(), sess))
	assert.Equal(t, 1, router.reboots)
	assert.True(t, router.closed)
	assert.Nil(t, sess.Router())
	assert.Equal(t, models.Disconnected, sess.State())

	assert.ErrorIs(t, p.Reboot(context.Background(), sess), ErrNotConnected)
}

func TestRebootFailureKeepsConnection(t *testing.T) {
	router := &fakeRouter{rebootFn: func() error { return errors.New("not enough permissions") }}
	sess := New("s1", router, "key")

	err := newTestPipeline(&fakeTranslator{}).Reboot(context.Background(), sess)
	require.Error(t, err)
	assert.False(t, router.closed)
	assert.Equal(t, models.Connected, sess.State())
}

func TestRebootWaitsForTurnInFlight(t *testing.T) {
	router := &fakeRouter{records: []models.Record{{{Key: "uptime", Value: "1d"}}}}
	tr := &blockingTranslator{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		desc:    models.NewCommandDescriptor("/system/resource", nil),
	}
	p := newTestPipeline(tr)
	sess := New("s1", router, "key")

	turnDone := make(chan error, 1)
	go func() {
		_, err := p.Turn(context.Background(), sess, "uptime?")
		turnDone <- err
	}()
	<-tr.entered

	rebootDone := make(chan error, 1)
	go func() {
		rebootDone <- p.Reboot(context.Background(), sess)
	}()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, router.rebootCount(), "reboot ran during a turn")

	close(tr.release)
	require.NoError(t, <-turnDone)
	require.NoError(t, <-rebootDone)
	assert.Equal(t, 1, router.rebootCount())

	turns := sess.Transcript.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, "Uptime: 1d\n\n---\n\n", turns[2].Content)
	assert.Equal(t, "Reboot command sent successfully!", turns[3].Content)
}
