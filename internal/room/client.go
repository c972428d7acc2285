package room

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Ping period, must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Outbound frames buffered per connection before the player is treated
	// as disconnected.
	sendBufferSize = 256
)

var errEndpointClosed = errors.New("endpoint closed")
var errSendBufferFull = errors.New("send buffer full")

// Client is the websocket-backed Endpoint for one player. The read pump
// feeds inbound events to the session; the write pump drains the send buffer
// to the socket, keeping all network I/O outside the room's lock.
type Client struct {
	roomID   string
	playerID string
	conn     *websocket.Conn
	session  *Session
	send     chan []byte
	done     chan struct{}
	once     sync.Once
}

func NewClient(roomID, playerID string, conn *websocket.Conn, session *Session) *Client {
	return &Client{
		roomID:   roomID,
		playerID: playerID,
		conn:     conn,
		session:  session,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// Send enqueues a frame without blocking. A full buffer or a closed client
// is reported as an error so the hub can treat the player as disconnected.
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return errEndpointClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// Close is idempotent; both pumps and the hub may race to call it.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// ReadPump pumps inbound frames into the session until the connection dies,
// then runs the disconnect path. Runs in the connection's handler goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.session.Disconnect(c.roomID, c.playerID)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("player", c.playerID).Msg("read pump closing")
			return
		}
		c.session.HandleMessage(c.roomID, c.playerID, msg)
	}
}

// WritePump drains the send buffer to the socket and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug().Err(err).Str("player", c.playerID).Msg("write pump closing")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
