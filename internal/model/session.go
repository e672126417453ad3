package model

import "time"

type SessionState string

const (
	SessionEmpty     SessionState = "empty"
	SessionLoaded    SessionState = "loaded"
	SessionAnswering SessionState = "answering"
	SessionSubmitted SessionState = "submitted"
)

// SessionSnapshot 会话的可序列化形式，由 SessionStore 保存
type SessionSnapshot struct {
	ID        string         `json:"id"`
	Exam      Exam           `json:"exam"`
	Answers   map[string]int `json:"answers"`
	State     SessionState   `json:"state"`
	Result    *Result        `json:"result,omitempty"`
	Origin    string         `json:"origin,omitempty"`
	StartedAt time.Time      `json:"startedAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
