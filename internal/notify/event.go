package notify

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventJoinRequested    EventType = "join_requested"
	EventRequestApproved  EventType = "request_approved"
	EventRequestDenied    EventType = "request_denied"
	EventProjectCompleted EventType = "project_completed"
	EventSkillPromoted    EventType = "skill_promoted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Project   string    `json:"project,omitempty"`
	User      string    `json:"user,omitempty"`
	Skill     string    `json:"skill,omitempty"`
	Rating    int       `json:"rating,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(typ EventType, projectName, userID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Project:   projectName,
		User:      userID,
		Timestamp: time.Now().UTC(),
	}
}
