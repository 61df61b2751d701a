package domain

import "time"

// SentimentAnalysis is the structured judgement the transformation model
// returns about a message when structured mode is enabled. It is attached to
// a ChatMessage, never stored on its own.
type SentimentAnalysis struct {
	SentimentScore       int    `json:"sentimentScore"`
	Emotion              string `json:"emotion"`
	AttackType           string `json:"attackType"`
	CommunicationStyle   string `json:"communicationStyle"`
	TransformationNeeded bool   `json:"transformationNeeded"`
	Explanation          string `json:"explanation"`
}

// ChatMessage is one relayed exchange: the text a participant sent and the
// softened version that was broadcast. Immutable once created.
type ChatMessage struct {
	ID              string             `json:"id"`
	RoomID          string             `json:"roomId"`
	SenderID        string             `json:"senderId"`
	Username        string             `json:"username"`
	OriginalText    string             `json:"originalText"`
	TransformedText string             `json:"transformedText"`
	Analysis        *SentimentAnalysis `json:"analysis,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Participant is one open connection in a room. Display names are labels,
// not identity keys; two participants may share one.
type Participant struct {
	ConnID      string
	RoomID      string
	DisplayName string
	JoinedAt    time.Time
}
