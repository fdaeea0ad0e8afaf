// Package publish pushes assembled record summaries to a viewer over
// socket.io.
package publish

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// EventRecord is the event emitted for every assembled record.
const EventRecord = "record"

const defaultConnectTimeout = 15 * time.Second

// Publisher sends record summaries somewhere.
type Publisher interface {
	Publish(ctx context.Context, file string, summary dataset.Summary) error
	Close() error
}

// Options configures the viewer connection.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Client publishes over a connected socket.io client.
type Client struct {
	io *socket.Socket
}

// Dial connects to the viewer and waits for the connect event.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse viewer URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("viewer URL %q needs a scheme and a host", opts.URL)
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to viewer.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("Viewer connection failed.", "error", err)
		select {
		case connectChan <- err:
		default:
		}
	})

	logger.Debug("Connecting to viewer.")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Client{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// Publish emits one record summary.
func (c *Client) Publish(ctx context.Context, file string, summary dataset.Summary) error {
	if !c.io.Connected() {
		return fmt.Errorf("viewer connection is not established")
	}
	payload, err := Payload(file, summary)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Publishing record.", "event", EventRecord, "title", summary.Title)
	return c.io.Emit(EventRecord, payload)
}

// Close disconnects from the viewer.
func (c *Client) Close() error {
	c.io.Disconnect()
	return nil
}

// Payload builds the JSON-compatible event body for one record.
func Payload(file string, summary dataset.Summary) (map[string]any, error) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record summary: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to encode record summary: %w", err)
	}
	out["file"] = file
	return out, nil
}

// Nop discards everything. It is used when no viewer is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, dataset.Summary) error { return nil }
func (Nop) Close() error { return nil }
