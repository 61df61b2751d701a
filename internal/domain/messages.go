package domain

// WebSocket message types from client.
const (
	MsgTypeJoin = "join"
	MsgTypeChat = "message"
)

// WebSocket message types to client.
const (
	MsgTypeHistory   = "history"
	MsgTypeMessage   = "message"
	MsgTypeUserCount = "user-count"
	MsgTypeUserList  = "user-list"
	MsgTypeError     = "error"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type ChatInbound struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Server -> Client messages

// HistoryOut is sent to the requesting connection only, on join.
type HistoryOut struct {
	Type           string        `json:"type"`
	Messages       []ChatMessage `json:"messages"`
	ConnectedUsers int           `json:"connectedUsers"`
}

// MessageOut carries a relayed message to every subscriber of the room,
// the sender included. The broadcast is the sender's confirmation; there is
// no separately shaped echo.
type MessageOut struct {
	Type string `json:"type"`
	ChatMessage
}

type UserCountOut struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type UserListOut struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorMessage(message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Message: message,
	}
}

// APIResponse is the envelope for REST endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
