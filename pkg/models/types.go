package models

import (
	"strings"
	"time"
)

const (
	PathReboot    = "/system/reboot"
	PathDHCPLease = "/ip/dhcp-server/lease"

	LeaseStatusBound = "bound"
)

type CommandDescriptor struct {
	Path   string            `json:"cmd"`
	Params map[string]string `json:"params"`
}

func NewCommandDescriptor(path string, params map[string]string) *CommandDescriptor {
	if params == nil {
		params = make(map[string]string)
	}
	return &CommandDescriptor{
		Path:   strings.TrimSuffix(path, "/print"),
		Params: params,
	}
}

func (d *CommandDescriptor) IsReboot() bool {
	return d != nil && d.Path == PathReboot
}

func (d *CommandDescriptor) IsDHCPLease() bool {
	return d != nil && d.Path == PathDHCPLease
}

type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record keeps fields in the order the router returned them.
type Record []Field

func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (r Record) IsActiveLease() bool {
	status, ok := r.Get("status")
	return ok && status == LeaseStatusBound
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatTurn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}
