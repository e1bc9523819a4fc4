package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/pkg/pipeline"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub fans workspace updates out to the websocket clients watching that workspace.
// With Redis configured, updates also reach clients connected to other instances.
type Hub struct {
	// workspace id -> clients
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	// closed once Run has returned
	done chan struct{}

	mu sync.RWMutex

	rdb        *redis.Client
	instanceID string
	logger     logger.ILogger
}

type Message struct {
	Type        string      `json:"type"`
	WorkspaceID string      `json:"workspace_id"`
	RunID       string      `json:"run_id,omitempty"`
	ProcessID   string      `json:"process_id,omitempty"`
	Status      string      `json:"status,omitempty"`
	Data        interface{} `json:"data,omitempty"`
}

type clusterPayload struct {
	Origin      string          `json:"origin"`
	WorkspaceID string          `json:"workspace_id"`
	Message     json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run processes registrations until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.WorkspaceID] = append(h.clients[client.WorkspaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"workspace_id": client.WorkspaceID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// join hands client to Run. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands client to Run for removal; after shutdown closeAll already did it.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.WorkspaceID]
	for i, c := range clients {
		if c == client {
			h.clients[client.WorkspaceID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.WorkspaceID]) == 0 {
		delete(h.clients, client.WorkspaceID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, id)
	}
}

func (h *Hub) ClientCount(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

// Publish delivers msg to local clients of its workspace and to the cluster.
func (h *Hub) Publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode message", map[string]interface{}{"error": err.Error()})
		return
	}
	h.deliverLocal(msg.WorkspaceID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterPayload{Origin: h.instanceID, WorkspaceID: msg.WorkspaceID, Message: data})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliverLocal sends under the read lock: Send is only closed under the write lock.
func (h *Hub) deliverLocal(workspaceID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[workspaceID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"workspace_id": workspaceID})
			go h.leave(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterPayload
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(payload.WorkspaceID, payload.Message)
		}
	}
}

// Hub is also a run observer: every state change is pushed to the workspace's clients.

func (h *Hub) RunStarted(info pipeline.RunInfo, ids []string) {
	h.Publish(Message{Type: "run_started", WorkspaceID: info.WorkspaceID, RunID: info.RunID, Data: ids})
}

func (h *Hub) StatusChanged(info pipeline.RunInfo, id string, s pipeline.Status) {
	h.Publish(Message{Type: "status", WorkspaceID: info.WorkspaceID, RunID: info.RunID, ProcessID: id, Status: string(s)})
}

func (h *Hub) OutputWritten(info pipeline.RunInfo, rec pipeline.OutputRecord) {
	h.Publish(Message{Type: "output", WorkspaceID: info.WorkspaceID, RunID: info.RunID, ProcessID: rec.ProcessID, Status: string(rec.Status), Data: rec})
}

func (h *Hub) RunFinished(s pipeline.Summary) {
	h.Publish(Message{Type: "run_finished", WorkspaceID: s.WorkspaceID, RunID: s.RunID, Data: s})
}
