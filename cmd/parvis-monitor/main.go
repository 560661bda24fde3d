// Parvis monitor - terminal client for the assistant's event feed.
//
// Attaches to a running assistant's web monitor and prints every
// conversation turn and timer completion as it happens.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// event covers both turn and timer feed messages; Type tells them apart.
type event struct {
	Type          string    `json:"type"`
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	Success       bool      `json:"success"`
	Error         string    `json:"error"`
	TotalMillis   int64     `json:"total_ms"`
	Message       string    `json:"message"`
	Duration      string    `json:"duration"`
}

func main() {
	addr := flag.String("addr", "localhost:8090", "Assistant monitor address")
	flag.Parse()

	url := fmt.Sprintf("ws://%s/ws/events", *addr)
	fmt.Printf("📡 Parvis monitor, watching %s\n", url)
	fmt.Println("   Press Ctrl+C to stop")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	for {
		if err := watch(ctx, url); err != nil {
			if ctx.Err() != nil {
				fmt.Println("\n👋 Goodbye!")
				return
			}
			fmt.Fprintf(os.Stderr, "⚠️  %v, retrying in 3s\n", err)
		}
		select {
		case <-ctx.Done():
			fmt.Println("\n👋 Goodbye!")
			return
		case <-time.After(3 * time.Second):
		}
	}
}

// watch attaches to the feed and prints events until the connection
// drops or ctx is cancelled.
func watch(ctx context.Context, url string) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer conn.Close()
	fmt.Println("✅ Connected")

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("feed closed: %w", err)
		}

		var ev event
		if err := json.Unmarshal(msg, &ev); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  bad event: %v\n", err)
			continue
		}
		printEvent(ev)
	}
}

func printEvent(ev event) {
	stamp := ev.Timestamp.Format("15:04:05")
	switch ev.Type {
	case "turn":
		if ev.Success {
			fmt.Printf("[%s] 🗣️  %q → %q (%.2fs)\n",
				stamp, ev.UserText, ev.AssistantText, float64(ev.TotalMillis)/1000)
		} else {
			fmt.Printf("[%s] ❌ turn failed: %s\n", stamp, ev.Error)
		}
	case "timer":
		fmt.Printf("[%s] ⏰ %s\n", stamp, ev.Message)
	default:
		fmt.Printf("[%s] %s\n", stamp, ev.Type)
	}
}
