package livefeed

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxRetries     = 10
	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = 60 * time.Second

	// Ticks arrive every few seconds, pings every pingInterval keep idle feeds open.
	pingInterval = 30 * time.Second
	readTimeout  = 2 * pingInterval
)

// FeedURL returns the websocket address of a simulator API.
func FeedURL(host string, tlsEnabled bool) url.URL {
	scheme := "ws"
	if tlsEnabled {
		scheme = "wss"
	}
	return url.URL{Scheme: scheme, Host: host, Path: "/ws"}
}

// Manage websocket connection and call funcToCall for each tick update.
// Returns when ctx is done or the server stayed unreachable for maxRetries attempts.
func StartListener(ctx context.Context, host string, tlsEnabled bool, funcToCall func(update *TickUpdate)) {
	u := FeedURL(host, tlsEnabled)
	retryCount := 0

	for {
		if ctx.Err() != nil {
			log.Println("Listener stopped")
			return
		}

		// Calculate retry delay with exponential backoff
		retryDelay := time.Duration(1<<retryCount) * baseRetryDelay
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}

		if retryCount > 0 {
			log.Printf("Retrying connection in %v... (attempt %d/%d)", retryDelay, retryCount+1, maxRetries)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				log.Println("Listener stopped during retry wait")
				return
			}
		}

		log.Printf("Connecting to %s", u.String())

		dialer := *websocket.DefaultDialer
		dialer.HandshakeTimeout = 10 * time.Second
		c, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			log.Printf("Connection failed: %v", err)
			retryCount++
			if retryCount >= maxRetries {
				log.Printf("Max retries (%d) reached. Giving up.", maxRetries)
				return
			}
			continue
		}

		log.Println("Connected! Accepting tick updates.")

		// Reset retry count on successful connection
		retryCount = 0

		connectionBroken := handleConnection(ctx, c, funcToCall)
		c.Close()

		if !connectionBroken {
			// Clean shutdown requested
			return
		}

		log.Println("Connection lost, will retry...")
	}
}

func handleConnection(ctx context.Context, c *websocket.Conn, funcToCall func(update *TickUpdate)) bool {
	done := make(chan struct{})

	// Detect dead connections
	c.SetReadDeadline(time.Now().Add(readTimeout))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket error: %v", err)
				} else {
					log.Printf("Connection closed: %v", err)
				}
				return
			}

			c.SetReadDeadline(time.Now().Add(readTimeout))

			if messageType != websocket.TextMessage {
				log.Printf("Received unexpected message type: %d", messageType)
				continue
			}
			if update := TickUpdateFromJsonBytes(message); update != nil {
				funcToCall(update)
			} else {
				log.Printf("Failed to parse tick update: %s", string(message))
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			// Connection broke
			return true
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Printf("Failed to send ping: %v", err)
			}
		case <-ctx.Done():
			log.Println("Closing live feed connection...")

			err := c.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			if err != nil {
				log.Println("Error sending close message:", err)
			}

			// Wait for close confirmation or timeout
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return false
		}
	}
}
