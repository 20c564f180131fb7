package models

import "time"

// CommunicationMessage is a note exchanged between staff and families.
type CommunicationMessage struct {
	ID          string    `db:"id" json:"id"`
	StudentID   *string   `db:"student_id" json:"student_id,omitempty"`
	SenderName  string    `db:"sender_name" json:"sender_name"`
	SenderRole  string    `db:"sender_role" json:"sender_role"`
	Recipient   *string   `db:"recipient" json:"recipient,omitempty"`
	Subject     string    `db:"subject" json:"subject"`
	MessageBody string    `db:"message_body" json:"message_body"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CommunicationDetail includes the student's display name when linked.
type CommunicationDetail struct {
	CommunicationMessage
	StudentName *string `db:"student_name" json:"student_name,omitempty"`
}

// CommunicationFilter narrows message listings.
type CommunicationFilter struct {
	StudentID string
	Page      int
	PageSize  int
}
