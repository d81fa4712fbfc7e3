// Package ws is the inbound websocket adapter for live tracking. A client
// connects to an order's stream, receives a snapshot frame to sync up, then
// tracking events as they happen. Partner connections may push location
// frames upstream over the same socket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/hub"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"
)

const (
	keepaliveInterval = 30 * time.Second
	maxFrameSize      = 1 << 20
)

// Frame types on the wire. Snapshot and event flow to the client; location
// flows from partner clients to the server.
const (
	frameSnapshot = "snapshot"
	frameEvent    = "event"
	frameLocation = "location"
)

type snapshotReader interface {
	Handle(ctx context.Context, query queries.GetTrackingSnapshotQuery) (
		queries.GetTrackingSnapshotQueryResponse, error)
}

type locationRecorder interface {
	Handle(ctx context.Context, cmd commands.RecordLocationCommand) error
}

type subscriber interface {
	SubscribeToOrder(orderID kernel.UUID) (*hub.Subscription, func(), error)
}

type outFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type inFrame struct {
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Tracker serves GET /api/v1/orders/:orderID/track. Authentication happens
// in the HTTP middleware before the upgrade; the handler only reads the
// verified claims.
type Tracker struct {
	hub       subscriber
	snapshots snapshotReader
	recorder  locationRecorder
	logger    *slog.Logger
}

// NewTracker creates the websocket tracking handler.
func NewTracker(
	h subscriber, snapshots snapshotReader, recorder locationRecorder, logger *slog.Logger,
) *Tracker {
	return &Tracker{
		hub:       h,
		snapshots: snapshots,
		recorder:  recorder,
		logger:    logger.With("component", "ws"),
	}
}

// Handle upgrades the connection and streams the order's tracking events
// until the client disconnects or the hub shuts down.
func (t *Tracker) Handle(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderID"))
	if err != nil {
		return echo.NewHTTPError(400, "invalid order id")
	}

	claims, _ := httpadapter.ClaimsFrom(c)

	// Subscribe before reading the snapshot: events landing while the
	// snapshot query runs queue up and are replayed after it.
	sub, unsubscribe, err := t.hub.SubscribeToOrder(orderID)
	if err != nil {
		return echo.NewHTTPError(503, "stream unavailable")
	}
	defer unsubscribe()

	query, err := queries.NewGetTrackingSnapshotQuery(orderID)
	if err != nil {
		return echo.NewHTTPError(400, "invalid order id")
	}
	snapshot, err := t.snapshots.Handle(c.Request().Context(), query)
	if err != nil {
		return echo.NewHTTPError(404, "order not found")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return nil
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	conn.SetReadLimit(maxFrameSize)

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	if err = wsjson.Write(ctx, conn, outFrame{Type: frameSnapshot, Data: snapshot}); err != nil {
		return nil
	}

	// The read loop doubles as disconnect detection: when the client goes
	// away the read fails and the stream shuts down.
	go t.readLoop(ctx, cancel, conn, orderID, claims)

	t.writeLoop(ctx, conn, sub)
	return nil
}

func (t *Tracker) writeLoop(ctx context.Context, conn *websocket.Conn, sub *hub.Subscription) {
	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, conn, outFrame{Type: frameEvent, Data: env}); err != nil {
				return
			}
		case <-keepalive.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Ping(pingCtx)
			pingCancel()
			if err != nil {
				return
			}
		}
	}
}

func (t *Tracker) readLoop(
	ctx context.Context,
	cancel context.CancelFunc,
	conn *websocket.Conn,
	orderID kernel.UUID,
	claims *httpadapter.Claims,
) {
	defer cancel()

	for {
		messageType, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if messageType != websocket.MessageText {
			continue
		}

		var frame inFrame
		if err = json.Unmarshal(data, &frame); err != nil {
			continue
		}
		if frame.Type != frameLocation {
			continue
		}

		// Only partners may move the order; other roles' location frames
		// are ignored.
		if claims == nil || claims.Role != httpadapter.RolePartner {
			continue
		}

		t.recordPing(ctx, orderID, claims.Subject, frame)
	}
}

func (t *Tracker) recordPing(
	ctx context.Context, orderID kernel.UUID, subject string, frame inFrame,
) {
	partnerID, err := kernel.UUIDFromString(subject)
	if err != nil {
		return
	}

	point, err := kernel.NewGeoPoint(frame.Lat, frame.Lng)
	if err != nil {
		return
	}

	cmd, err := commands.NewRecordLocationCommand(orderID, point, &partnerID)
	if err != nil {
		return
	}

	if err = t.recorder.Handle(ctx, cmd); err != nil && !errors.Is(err, context.Canceled) {
		t.logger.Warn("ws location ping failed",
			"order_id", orderID.String(), "error", err)
	}
}
