package service

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/dto"
)

const feedSendBufferSize = 16

// LiveFeedService fans scored events out to connected screen clients. The
// hub is in-process only: a single node serves one classroom, and the screen
// falls back to polling the board snapshot when the socket drops.
type LiveFeedService interface {
	FeedPublisher
	ServeConnection(conn *websocket.Conn)
	ClientCount() int
}

type liveFeedService struct {
	mu      sync.RWMutex
	clients map[*feedClient]struct{}
	logger  zerolog.Logger
}

type feedClient struct {
	send   chan dto.FeedEntry
	closed chan struct{}
	once   sync.Once
}

// NewLiveFeedService constructs the live feed hub.
func NewLiveFeedService(logger zerolog.Logger) LiveFeedService {
	return &liveFeedService{
		clients: make(map[*feedClient]struct{}),
		logger:  logger.With().Str("component", "live_feed_service").Logger(),
	}
}

// Publish delivers the entry to every connected client. Slow clients have
// the event dropped rather than blocking the claim path.
func (s *liveFeedService) Publish(entry dto.FeedEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for client := range s.clients {
		select {
		case client.send <- entry:
		default:
			s.logger.Debug().Msg("live feed client too slow, event dropped")
		}
	}
}

// ServeConnection pumps feed events to one websocket client until the peer
// disconnects. Blocks for the lifetime of the connection.
func (s *liveFeedService) ServeConnection(conn *websocket.Conn) {
	client := &feedClient{
		send:   make(chan dto.FeedEntry, feedSendBufferSize),
		closed: make(chan struct{}),
	}

	s.register(client)
	defer s.unregister(client)

	go func() {
		for {
			select {
			case entry := <-client.send:
				if err := conn.WriteJSON(entry); err != nil {
					client.close()
					return
				}
			case <-client.closed:
				return
			}
		}
	}()

	// The screen never sends application messages; the read loop only
	// notices the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			client.close()
			return
		}
	}
}

func (s *liveFeedService) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *liveFeedService) register(client *feedClient) {
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug().Msg("live feed client connected")
}

func (s *liveFeedService) unregister(client *feedClient) {
	s.mu.Lock()
	delete(s.clients, client)
	s.mu.Unlock()
	s.logger.Debug().Msg("live feed client disconnected")
}

func (c *feedClient) close() {
	c.once.Do(func() {
		close(c.closed)
	})
}
