package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/louisbranch/liarsdice/internal/platform/timeouts"
)

// peer is one websocket connection. Writes go through a buffered channel
// drained by writePump so broadcast fan-out never blocks on a slow client.
type peer struct {
	conn     *websocket.Conn
	playerID string

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newPeer(conn *websocket.Conn, playerID string) *peer {
	return &peer{
		conn:     conn,
		playerID: playerID,
		send:     make(chan []byte, sendBuffer),
	}
}

// enqueue queues a frame for delivery. A peer whose buffer is full is
// closed; it can reconnect and replay instead of holding everyone up.
func (p *peer) enqueue(frame []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.send <- frame:
	default:
		p.closed = true
		close(p.send)
	}
}

func (p *peer) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.send)
}

// writePump owns all writes on the connection: queued frames plus the
// keepalive pings that drive the read deadline on the other side.
func (p *peer) writePump() {
	ticker := time.NewTicker(timeouts.PingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(timeouts.SocketWrite))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(timeouts.SocketWrite))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
