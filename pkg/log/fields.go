package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Chat
	FieldRoomID    = "room_id"
	FieldConnID    = "conn_id"
	FieldMessageID = "message_id"
	FieldUsername  = "username"

	// Transformation backend
	FieldModel = "model"

	// Service
	FieldService = "service"
)
