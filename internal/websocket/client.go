package websocket

import (
	"context"
	"errors"
	"fmt"
	"time"

	ws "github.com/coder/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
	readLimit      = 512
)

var errSendClosed = errors.New("send queue closed")

// Client is one connected app and the notifications waiting to be written to
// it.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	remote string
	send   chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, remote string) *Client {
	conn.SetReadLimit(readLimit)
	return &Client{
		hub:    hub,
		conn:   conn,
		remote: remote,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Run serves the client until either side hangs up or ctx ends, and returns
// the reason the connection ended.
func (c *Client) Run(ctx context.Context) error {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.listen(gctx) })
	g.Go(func() error { return c.deliver(gctx) })
	return g.Wait()
}

// listen drains inbound frames. The apps never send anything meaningful, but
// reading is what surfaces close frames and dead peers.
func (c *Client) listen(ctx context.Context) error {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return fmt.Errorf("read: %w", err)
		}
	}
}

// deliver writes queued notifications and keeps idle connections alive.
func (c *Client) deliver(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-c.send:
			if !ok {
				return errSendClosed
			}
			if err := c.write(ctx, msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
