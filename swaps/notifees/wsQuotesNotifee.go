package notifees

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klever-io/klv-swaps-go/swaps"
)

const (
	// DefaultWriteTimeout is the default deadline of a websocket write
	DefaultWriteTimeout = 5 * time.Second
	// DefaultClientBufferSize is the default number of pending updates kept for a websocket client
	DefaultClientBufferSize = 16
)

// QuotesUpdate is the message pushed to the websocket clients
type QuotesUpdate struct {
	Sequence        uint64                  `json:"sequence"`
	TopAggregatorID string                  `json:"topAggId"`
	Quotes          swaps.QuoteMap          `json:"quotes"`
	FetchParams     swaps.SwapRequestParams `json:"fetchParams"`
	Timestamp       int64                   `json:"timestamp"`
}

// ArgsWSQuotesNotifee is the argument DTO for the websocket notifee
type ArgsWSQuotesNotifee struct {
	WriteTimeout     time.Duration
	ClientBufferSize int
	CheckOrigin      func(r *http.Request) bool
}

type wsClient struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (client *wsClient) close() {
	client.closeOnce.Do(func() {
		close(client.done)
		_ = client.conn.Close()
	})
}

type wsQuotesNotifee struct {
	upgrader         websocket.Upgrader
	writeTimeout     time.Duration
	clientBufferSize int

	mut          sync.RWMutex
	clients      map[*wsClient]struct{}
	lastSequence uint64
	lastMessage  []byte
	closed       bool
}

// NewWSQuotesNotifee creates a notifee that pushes every accepted quotes update to the connected websocket clients.
// Updates older than the last pushed one are dropped
func NewWSQuotesNotifee(args ArgsWSQuotesNotifee) (*wsQuotesNotifee, error) {
	if args.WriteTimeout < 0 {
		return nil, fmt.Errorf("%w: %v", errInvalidWriteTimeout, args.WriteTimeout)
	}
	if args.ClientBufferSize < 0 {
		return nil, fmt.Errorf("%w: %d", errInvalidBufferSize, args.ClientBufferSize)
	}

	notifee := &wsQuotesNotifee{
		upgrader: websocket.Upgrader{
			CheckOrigin: args.CheckOrigin,
		},
		writeTimeout:     args.WriteTimeout,
		clientBufferSize: args.ClientBufferSize,
		clients:          make(map[*wsClient]struct{}),
	}
	if notifee.writeTimeout == 0 {
		notifee.writeTimeout = DefaultWriteTimeout
	}
	if notifee.clientBufferSize == 0 {
		notifee.clientBufferSize = DefaultClientBufferSize
	}

	return notifee, nil
}

// ServeWS upgrades the connection and registers it as a quotes updates listener. The last pushed update, if any,
// is sent right away
func (notifee *wsQuotesNotifee) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := notifee.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, notifee.clientBufferSize),
		done: make(chan struct{}),
	}

	notifee.mut.Lock()
	if notifee.closed {
		notifee.mut.Unlock()
		client.close()
		return errNotifeeClosed
	}
	notifee.clients[client] = struct{}{}
	if notifee.lastMessage != nil {
		client.send <- notifee.lastMessage
	}
	notifee.mut.Unlock()

	log.Debug("websocket client connected", "remote", conn.RemoteAddr().String())

	go notifee.writeLoop(client)
	go notifee.readLoop(client)

	return nil
}

func (notifee *wsQuotesNotifee) writeLoop(client *wsClient) {
	for {
		select {
		case <-client.done:
			return
		case message := <-client.send:
			err := client.conn.SetWriteDeadline(time.Now().Add(notifee.writeTimeout))
			if err == nil {
				err = client.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				log.Debug("websocket write failed", "remote", client.conn.RemoteAddr().String(), "error", err)
				notifee.removeClient(client)
				return
			}
		}
	}
}

// readLoop only detects the closed connections, the clients are not expected to send anything
func (notifee *wsQuotesNotifee) readLoop(client *wsClient) {
	for {
		_, _, err := client.conn.ReadMessage()
		if err != nil {
			notifee.removeClient(client)
			return
		}
	}
}

func (notifee *wsQuotesNotifee) removeClient(client *wsClient) {
	notifee.mut.Lock()
	_, found := notifee.clients[client]
	delete(notifee.clients, client)
	notifee.mut.Unlock()

	client.close()
	if found {
		log.Debug("websocket client disconnected", "remote", client.conn.RemoteAddr().String())
	}
}

// QuotesChanged pushes the update to all connected clients. Clients that can not keep up are disconnected
func (notifee *wsQuotesNotifee) QuotesChanged(_ context.Context, args swaps.ArgsQuotesChanged) error {
	message, err := json.Marshal(QuotesUpdate{
		Sequence:        args.Sequence,
		TopAggregatorID: args.TopAggregatorID,
		Quotes:          args.Quotes,
		FetchParams:     args.FetchParams,
		Timestamp:       args.Timestamp,
	})
	if err != nil {
		return err
	}

	notifee.mut.Lock()
	defer notifee.mut.Unlock()

	if notifee.closed {
		return errNotifeeClosed
	}
	if args.Sequence <= notifee.lastSequence {
		log.Debug("dropping stale quotes update", "sequence", args.Sequence, "last sequence", notifee.lastSequence)
		return nil
	}

	notifee.lastSequence = args.Sequence
	notifee.lastMessage = message
	for client := range notifee.clients {
		select {
		case client.send <- message:
		default:
			log.Debug("websocket client too slow, disconnecting", "remote", client.conn.RemoteAddr().String())
			delete(notifee.clients, client)
			client.close()
		}
	}

	return nil
}

// NumClients returns the number of connected websocket clients
func (notifee *wsQuotesNotifee) NumClients() int {
	notifee.mut.RLock()
	defer notifee.mut.RUnlock()

	return len(notifee.clients)
}

// Close disconnects all the websocket clients
func (notifee *wsQuotesNotifee) Close() error {
	notifee.mut.Lock()
	defer notifee.mut.Unlock()

	notifee.closed = true
	for client := range notifee.clients {
		client.close()
	}
	notifee.clients = make(map[*wsClient]struct{})

	return nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (notifee *wsQuotesNotifee) IsInterfaceNil() bool {
	return notifee == nil
}
