package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/aristath/esgscreen/internal/domain"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// criteriaMessage is one control change sent by the dashboard.
// Omitted fields keep their previous value.
type criteriaMessage struct {
	MinESGScore *int     `json:"min_esg_score"`
	MaxPERatio  *float64 `json:"max_pe_ratio"`
	Refresh     bool     `json:"refresh"`
}

// HandleWebSocket handles GET /api/screening/ws
// The server sends a view for the default criteria on connect, then one per client message.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Hijacked connections keep the server's read/write deadlines.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	ctx := r.Context()
	criteria := h.defaults

	if err := wsjson.Write(ctx, conn, h.pipeline.Run(criteria)); err != nil {
		h.log.Debug().Err(err).Msg("Failed to send initial view")
		return
	}

	for {
		next, err := h.readCriteria(ctx, conn, criteria)
		if err != nil {
			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) || errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			var protoErr criteriaError
			if errors.As(err, &protoErr) {
				if werr := wsjson.Write(ctx, conn, map[string]string{"error": protoErr.Error()}); werr != nil {
					return
				}
				continue
			}
			h.log.Debug().Err(err).Msg("WebSocket read failed")
			return
		}

		criteria = next
		if err := wsjson.Write(ctx, conn, h.pipeline.Run(criteria)); err != nil {
			h.log.Debug().Err(err).Msg("Failed to send view")
			return
		}
	}
}

type criteriaError struct {
	msg string
}

func (e criteriaError) Error() string {
	return e.msg
}

func (h *Handlers) readCriteria(ctx context.Context, conn *websocket.Conn, current domain.FilterCriteria) (domain.FilterCriteria, error) {
	typ, data, err := conn.Read(ctx)
	if err != nil {
		return current, err
	}
	if typ != websocket.MessageText {
		return current, criteriaError{msg: "expected a JSON text message"}
	}

	var msg criteriaMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return current, criteriaError{msg: "invalid criteria message"}
	}

	next := current
	if msg.MinESGScore != nil {
		next.MinESGScore = *msg.MinESGScore
	}
	if msg.MaxPERatio != nil {
		if math.IsNaN(*msg.MaxPERatio) || math.IsInf(*msg.MaxPERatio, 0) {
			return current, criteriaError{msg: "max_pe_ratio must be a number"}
		}
		next.MaxPERatio = *msg.MaxPERatio
	}
	if err := h.validateCriteria(next); err != nil {
		return current, criteriaError{msg: err.Error()}
	}

	if msg.Refresh {
		if _, err := h.clearCaches(); err != nil {
			return current, criteriaError{msg: "failed to clear cached data"}
		}
	}
	return next, nil
}
