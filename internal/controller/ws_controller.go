package controller

import (
	"encoding/json"

	"stlc-manager-be/internal/service"
	internalWS "stlc-manager-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IWsController interface {
	RegisterRoutes(r fiber.Router)
	Upgrade(ctx *fiber.Ctx) error
}

type wsController struct {
	hub              *internalWS.Hub
	workspaceService service.IWorkspaceService
}

func NewWsController(hub *internalWS.Hub, workspaceService service.IWorkspaceService) IWsController {
	return &wsController{
		hub:              hub,
		workspaceService: workspaceService,
	}
}

func (c *wsController) RegisterRoutes(r fiber.Router) {
	r.Get(":id/ws", c.Upgrade, websocket.New(c.serve))
}

// Upgrade rejects plain HTTP and unknown workspaces before the handshake.
func (c *wsController) Upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	snap, err := c.workspaceService.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	hello, err := json.Marshal(internalWS.Message{Type: "snapshot", WorkspaceID: snap.ID, Data: snap})
	if err != nil {
		return err
	}
	ctx.Locals("hello", hello)
	return ctx.Next()
}

func (c *wsController) serve(conn *websocket.Conn) {
	hello, _ := conn.Locals("hello").([]byte)
	internalWS.ServeWs(c.hub, conn, conn.Params("id"), hello)
}
