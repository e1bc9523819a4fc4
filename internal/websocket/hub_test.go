package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/pkg/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func join(t *testing.T, hub *Hub, workspaceID string) *Client {
	t.Helper()
	c := NewClient(hub, nil, workspaceID)
	hub.register <- c
	require.Eventually(t, func() bool { return hub.ClientCount(workspaceID) > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func TestHub_DeliversOnlyToWorkspaceClients(t *testing.T) {
	hub := startHub(t)
	a := join(t, hub, "ws-a")
	b := join(t, hub, "ws-b")

	info := pipeline.RunInfo{RunID: "r1", WorkspaceID: "ws-a", Mode: pipeline.ModePipeline}
	hub.StatusChanged(info, "code-review", pipeline.StatusRunning)

	select {
	case raw := <-a.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "status", msg.Type)
		assert.Equal(t, "code-review", msg.ProcessID)
		assert.Equal(t, "running", msg.Status)
		assert.Equal(t, "r1", msg.RunID)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	assert.Len(t, b.Send, 0)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := join(t, hub, "ws-a")

	hub.unregister <- c
	require.Eventually(t, func() bool { return hub.ClientCount("ws-a") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	c := join(t, hub, "ws-a")

	for i := 0; i < sendBuffer+1; i++ {
		hub.Publish(Message{Type: "status", WorkspaceID: "ws-a"})
	}
	require.Eventually(t, func() bool { return hub.ClientCount("ws-a") == 0 }, time.Second, 5*time.Millisecond)
	assert.NotNil(t, c)
}

func TestHub_PublishWhileClientsLeave(t *testing.T) {
	hub := startHub(t)

	for i := 0; i < 100; i++ {
		workspaceID := fmt.Sprintf("ws-%d", i)
		c := join(t, hub, workspaceID)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NotPanics(t, func() {
				for j := 0; j < 200; j++ {
					hub.Publish(Message{Type: "status", WorkspaceID: workspaceID})
				}
			})
		}()
		go func() {
			defer wg.Done()
			hub.leave(c)
		}()
		wg.Wait()

		require.Eventually(t, func() bool { return hub.ClientCount(workspaceID) == 0 }, time.Second, 5*time.Millisecond)
	}
}

func TestHub_JoinAndLeaveAfterShutdown(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := join(t, hub, "ws-a")
	cancel()
	<-stopped

	_, open := <-c.Send
	assert.False(t, open)

	left := make(chan struct{})
	go func() {
		hub.leave(c)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after shutdown")
	}

	assert.False(t, hub.join(NewClient(hub, nil, "ws-b")))
}
