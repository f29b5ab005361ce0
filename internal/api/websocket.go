package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocket message types for the chunked upload-and-convert protocol
const (
	// Client -> Server messages
	MsgTypeUploadInit     = "upload:init"
	MsgTypeUploadChunk    = "upload:chunk"
	MsgTypeUploadComplete = "upload:complete"
	MsgTypePing           = "ping"

	// Server -> Client messages
	MsgTypeAck        = "ack"
	MsgTypeProgress   = "progress"
	MsgTypeProcessing = "processing"
	MsgTypeComplete   = "complete"
	MsgTypeError      = "error"
	MsgTypePong       = "pong"
)

// WSMessage is the envelope for every frame in both directions
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// UploadInitPayload starts a chunked upload
type UploadInitPayload struct {
	FileName    string `json:"fileName"`
	TotalChunks int    `json:"totalChunks"`
	TotalSize   int64  `json:"totalSize"`
}

// UploadChunkPayload carries one base64-encoded chunk
type UploadChunkPayload struct {
	UploadID   string `json:"uploadId"`
	ChunkIndex int    `json:"chunkIndex"`
	Data       string `json:"data"`
}

// UploadCompletePayload finishes the upload and triggers conversion
type UploadCompletePayload struct {
	UploadID string `json:"uploadId"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	// The page is served from this same process; cross-origin WS is fine
	// when CORS is enabled for the REST API too.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsUpload accumulates chunks for one in-flight upload on a connection.
type wsUpload struct {
	fileName string
	total    int
	received int
	buf      bytes.Buffer
}

// WebSocketHandler runs the conversion pipeline over a WS connection so the
// page can stream large files in chunks and get progress frames back.
type WebSocketHandler struct {
	pipeline *ConvertHandlerImpl
	maxBytes int64
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(pipeline *ConvertHandlerImpl, maxBytes int64) *WebSocketHandler {
	if maxBytes <= 0 {
		maxBytes = 256 << 20
	}
	return &WebSocketHandler{pipeline: pipeline, maxBytes: maxBytes}
}

// HandleWebSocket upgrades the connection and serves the upload protocol.
// Each connection handles its uploads sequentially; one failed run only
// fails that run, the connection stays usable.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	uploads := make(map[string]*wsUpload)

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return nil // client went away
		}

		switch msg.Type {
		case MsgTypePing:
			h.send(conn, WSMessage{Type: MsgTypePong})

		case MsgTypeUploadInit:
			var p UploadInitPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil || p.FileName == "" || p.TotalChunks <= 0 {
				h.sendError(conn, msg.ID, "invalid upload:init payload")
				continue
			}
			if p.TotalSize > h.maxBytes {
				h.sendError(conn, msg.ID, fmt.Sprintf("file exceeds %d byte limit", h.maxBytes))
				continue
			}
			uploadID := uuid.New().String()
			uploads[uploadID] = &wsUpload{fileName: p.FileName, total: p.TotalChunks}
			h.send(conn, WSMessage{Type: MsgTypeAck, ID: uploadID})

		case MsgTypeUploadChunk:
			var p UploadChunkPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				h.sendError(conn, msg.ID, "invalid upload:chunk payload")
				continue
			}
			up, ok := uploads[p.UploadID]
			if !ok {
				h.sendError(conn, p.UploadID, "unknown upload")
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.Data)
			if err != nil {
				delete(uploads, p.UploadID)
				h.sendError(conn, p.UploadID, "invalid base64 chunk")
				continue
			}
			if int64(up.buf.Len()+len(data)) > h.maxBytes {
				delete(uploads, p.UploadID)
				h.sendError(conn, p.UploadID, "upload exceeds size limit")
				continue
			}
			up.buf.Write(data)
			up.received++
			h.send(conn, WSMessage{
				Type:    MsgTypeProgress,
				ID:      p.UploadID,
				Payload: mustJSON(map[string]interface{}{"received": up.received, "total": up.total}),
			})

		case MsgTypeUploadComplete:
			var p UploadCompletePayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				h.sendError(conn, msg.ID, "invalid upload:complete payload")
				continue
			}
			up, ok := uploads[p.UploadID]
			if !ok {
				h.sendError(conn, p.UploadID, "unknown upload")
				continue
			}
			delete(uploads, p.UploadID)

			if up.received != up.total {
				h.sendError(conn, p.UploadID, fmt.Sprintf("expected %d chunks, got %d", up.total, up.received))
				continue
			}

			h.send(conn, WSMessage{Type: MsgTypeProcessing, ID: p.UploadID})

			result, apiErr := h.pipeline.runConversion(c.Request().Context(), up.fileName, &up.buf)
			if apiErr != nil {
				h.sendError(conn, p.UploadID, apiErr.Message+detailSuffix(apiErr))
				continue
			}

			h.send(conn, WSMessage{
				Type:    MsgTypeComplete,
				ID:      p.UploadID,
				Payload: mustJSON(h.pipeline.toResponse(result)),
			})

		default:
			h.sendError(conn, msg.ID, "unknown message type: "+msg.Type)
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg WSMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	_ = conn.WriteJSON(msg)
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, id, message string) {
	h.send(conn, WSMessage{
		Type:    MsgTypeError,
		ID:      id,
		Payload: mustJSON(map[string]string{"message": message}),
	})
}

func detailSuffix(err *APIError) string {
	if err.Details == "" {
		return ""
	}
	return ": " + err.Details
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
