package routeros

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
	ros "github.com/go-routeros/routeros/v3"
	"github.com/rs/zerolog"
)

const defaultAPIPort = "8728"

var ErrNotConnected = errors.New("not connected to a router")

type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type runner interface {
	RunArgsContext(ctx context.Context, sentence []string) (*ros.Reply, error)
}

// Conn is one authenticated RouterOS API session. Calls are serialised.
type Conn struct {
	host   string
	run    runner
	close  func()
	abort  func()
	logger zerolog.Logger

	mu        sync.Mutex
	connected bool
}

func Dial(ctx context.Context, host, user, password string, logger zerolog.Logger) (*Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ConnectionError{Host: host, Err: err}
	}

	address := withDefaultPort(host)
	logger.Debug().Str("address", address).Str("user", user).Msg("connecting to router")

	netConn, err := new(net.Dialer).DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &ConnectionError{Host: host, Err: err}
	}

	// LoginContext does not watch ctx in sync mode; expire the socket instead.
	abort := func() { _ = netConn.SetDeadline(time.Now()) }
	stop := context.AfterFunc(ctx, abort)

	client, err := ros.NewClient(netConn)
	if err != nil {
		stop()
		_ = netConn.Close()
		return nil, &ConnectionError{Host: host, Err: err}
	}

	if err := client.LoginContext(ctx, user, password); err != nil {
		stop()
		_ = client.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(ctxErr, err)
		}
		return nil, &ConnectionError{Host: host, Err: err}
	}

	if !stop() {
		_ = client.Close()
		return nil, &ConnectionError{Host: host, Err: ctx.Err()}
	}

	logger.Info().Str("host", host).Msg("connected to router")

	return &Conn{
		host:      host,
		run:       client,
		close:     func() { _ = client.Close() },
		abort:     abort,
		logger:    logger,
		connected: true,
	}, nil
}

func withDefaultPort(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, defaultAPIPort)
}

func (c *Conn) Host() string {
	return c.host
}

func (c *Conn) State() models.ConnectionState {
	if c == nil {
		return models.Disconnected
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return models.Connected
	}
	return models.Disconnected
}

// Query runs "<path>/print" with one "?key=value" word per param.
func (c *Conn) Query(ctx context.Context, path string, params map[string]string) ([]models.Record, error) {
	reply, err := c.runArgs(ctx, BuildQuery(path, params))
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(reply.Re))
	for _, sentence := range reply.Re {
		record := make(models.Record, 0, len(sentence.List))
		for _, pair := range sentence.List {
			record = append(record, models.Field{Key: pair.Key, Value: pair.Value})
		}
		records = append(records, record)
	}

	return records, nil
}

// Reboot is the action invocation for /system/reboot. It is only reachable
// through an explicit, user-confirmed control.
func (c *Conn) Reboot(ctx context.Context) error {
	c.logger.Warn().Str("host", c.host).Msg("sending reboot command")

	if _, err := c.runArgs(ctx, []string{models.PathReboot}); err != nil {
		return fmt.Errorf("failed to send reboot command: %w", err)
	}
	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	if c.close != nil {
		c.close()
	}

	c.logger.Info().Str("host", c.host).Msg("disconnected from router")
	return nil
}

func (c *Conn) runArgs(ctx context.Context, sentence []string) (*ros.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, ErrNotConnected
	}

	c.logger.Debug().Strs("sentence", sentence).Msg("running RouterOS command")

	stop := func() bool { return true }
	if c.abort != nil {
		stop = context.AfterFunc(ctx, c.abort)
	}

	reply, err := c.run.RunArgsContext(ctx, sentence)
	if !stop() {
		// The reply was cut off mid-stream; the session can't be reused.
		c.logger.Warn().Str("host", c.host).Msg("router command interrupted, dropping connection")
		c.connected = false
		if c.close != nil {
			c.close()
		}
		return nil, ctx.Err()
	}
	return reply, err
}

func BuildQuery(path string, params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sentence := make([]string, 0, len(keys)+1)
	sentence = append(sentence, path+"/print")
	for _, k := range keys {
		sentence = append(sentence, fmt.Sprintf("?%s=%s", k, params[k]))
	}
	return sentence
}
