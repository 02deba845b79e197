package domain

import (
	"time"
)

// DeliveryMode selects the channel an outbound message is sent through.
type DeliveryMode string

const (
	// DeliveryModeOfficial is the metered WhatsApp Business API channel.
	DeliveryModeOfficial DeliveryMode = "official"
	// DeliveryModeUnofficial is the flat-rate unofficial channel.
	DeliveryModeUnofficial DeliveryMode = "unofficial"
)

// MessageType describes the payload shape of an outbound message.
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeTemplate MessageType = "template"
	MessageTypeMedia    MessageType = "media"
)

// MessageStatus is the delivery state of an outbound message.
type MessageStatus string

const (
	MessageStatusSent MessageStatus = "sent"
)

// Message represents one outbound send attempt. A Message row is created only
// as a side effect of a successful credit consumption; a rejected send never
// produces one.
type Message struct {
	ID             string        `json:"id"`
	BusinessUserID string        `json:"user_id"`
	Mode           DeliveryMode  `json:"mode"`
	SenderNumber   string        `json:"sender_number"`
	ReceiverNumber string        `json:"receiver_number"`
	MessageType    MessageType   `json:"message_type"`
	TemplateName   *string       `json:"template_name,omitempty"`
	Body           string        `json:"body"`
	Status         MessageStatus `json:"status"`
	CreditsUsed    float64       `json:"credits_used"`
	SentAt         time.Time     `json:"sent_at"`
}
