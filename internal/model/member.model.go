package model

import (
	"errors"
	"time"
)

type MemberSource string

const (
	MemberSourceManual   MemberSource = "manual"
	MemberSourceImported MemberSource = "imported"
)

// Member is a person. Members are shared across groups and keyed by phone.
type Member struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone"`
	Source    MemberSource `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
}

type MemberCreateRequest struct {
	Name   string       `json:"name"`
	Phone  string       `json:"phone"`
	Source MemberSource `json:"source"`
}

func (p MemberCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Phone == "" {
		return errors.New("phone is required")
	}
	switch p.Source {
	case "", MemberSourceManual, MemberSourceImported:
	default:
		return errors.New("source must be manual or imported")
	}
	return nil
}
