// Package command defines the envelope pushed to player and admin clients.
// The set of command types is closed: every variant lives in this package
// and implements the unexported marker method, so the serialization boundary
// sees an exhaustive, compile-checked union.
package command

import (
	"encoding/json"
	"fmt"
	"time"
)

type Type string

const (
	TypeRefresh        Type = "refresh"
	TypeRefreshContent Type = "refresh-content"
	TypeMute           Type = "mute"
	TypeNavigate       Type = "navigate"
	TypeRepeat         Type = "repeat"
	TypeMosaicToggle   Type = "mosaic-toggle"
	TypeConnected      Type = "connected"
	TypeRTSPControl    Type = "rtsp_control"
)

// Direction is the navigate payload. Only Next and Previous are valid;
// anything else is rejected before dispatch.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

func (d Direction) Valid() bool {
	return d == DirectionNext || d == DirectionPrevious
}

// MosaicAction is the mosaic-toggle payload.
type MosaicAction string

const (
	MosaicToggle MosaicAction = "toggle"
	MosaicShow   MosaicAction = "show"
	MosaicHide   MosaicAction = "hide"
)

func (a MosaicAction) Valid() bool {
	return a == MosaicToggle || a == MosaicShow || a == MosaicHide
}

// Command is the closed envelope union. Values are immutable once built by
// their constructor; dispatch never mutates them.
type Command interface {
	CommandType() Type
	isCommand()
}

type Refresh struct {
	Kind      Type      `json:"type"`
	Source    string    `json:"source,omitempty"`
	Forced    bool      `json:"forced"`
	Timestamp time.Time `json:"timestamp"`
}

type RefreshContent struct {
	Kind      Type      `json:"type"`
	ScreenID  string    `json:"screen_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Mute struct {
	Kind      Type      `json:"type"`
	Muted     bool      `json:"muted"`
	Timestamp time.Time `json:"timestamp"`
}

type Navigate struct {
	Kind      Type      `json:"type"`
	Direction Direction `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
}

type Repeat struct {
	Kind      Type      `json:"type"`
	Repeat    bool      `json:"repeat"`
	Timestamp time.Time `json:"timestamp"`
}

type Mosaic struct {
	Kind      Type         `json:"type"`
	Action    MosaicAction `json:"action"`
	Source    string       `json:"source,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

type Connected struct {
	Kind      Type      `json:"type"`
	ScreenID  string    `json:"screen_id"`
	Timestamp time.Time `json:"timestamp"`
}

type RTSPControl struct {
	Kind      Type      `json:"type"`
	Action    string    `json:"action"`
	StreamURL string    `json:"stream_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (c Refresh) CommandType() Type        { return TypeRefresh }
func (c RefreshContent) CommandType() Type { return TypeRefreshContent }
func (c Mute) CommandType() Type           { return TypeMute }
func (c Navigate) CommandType() Type       { return TypeNavigate }
func (c Repeat) CommandType() Type         { return TypeRepeat }
func (c Mosaic) CommandType() Type         { return TypeMosaicToggle }
func (c Connected) CommandType() Type      { return TypeConnected }
func (c RTSPControl) CommandType() Type    { return TypeRTSPControl }

func (Refresh) isCommand()        {}
func (RefreshContent) isCommand() {}
func (Mute) isCommand()           {}
func (Navigate) isCommand()       {}
func (Repeat) isCommand()         {}
func (Mosaic) isCommand()         {}
func (Connected) isCommand()      {}
func (RTSPControl) isCommand()    {}

func NewRefresh(source string, forced bool) Refresh {
	return Refresh{Kind: TypeRefresh, Source: source, Forced: forced, Timestamp: time.Now().UTC()}
}

func NewRefreshContent(screenID string) RefreshContent {
	return RefreshContent{Kind: TypeRefreshContent, ScreenID: screenID, Timestamp: time.Now().UTC()}
}

func NewMute(muted bool) Mute {
	return Mute{Kind: TypeMute, Muted: muted, Timestamp: time.Now().UTC()}
}

// NewNavigate validates the direction before constructing the envelope.
// An invalid direction is a caller error, not a delivery failure.
func NewNavigate(direction Direction) (Navigate, error) {
	if !direction.Valid() {
		return Navigate{}, fmt.Errorf("invalid navigate direction %q", direction)
	}
	return Navigate{Kind: TypeNavigate, Direction: direction, Timestamp: time.Now().UTC()}, nil
}

func NewRepeat(repeat bool) Repeat {
	return Repeat{Kind: TypeRepeat, Repeat: repeat, Timestamp: time.Now().UTC()}
}

func NewMosaic(action MosaicAction, source string) (Mosaic, error) {
	if !action.Valid() {
		return Mosaic{}, fmt.Errorf("invalid mosaic action %q", action)
	}
	return Mosaic{Kind: TypeMosaicToggle, Action: action, Source: source, Timestamp: time.Now().UTC()}, nil
}

func NewConnected(screenID string) Connected {
	return Connected{Kind: TypeConnected, ScreenID: screenID, Timestamp: time.Now().UTC()}
}

func NewRTSPControl(action, streamURL string) RTSPControl {
	return RTSPControl{Kind: TypeRTSPControl, Action: action, StreamURL: streamURL, Timestamp: time.Now().UTC()}
}

// Encode serializes a command to its wire JSON. Both transports carry the
// same logical shape; the SSE handler wraps this in a data: frame and the
// WebSocket handler sends it as one text message.
func Encode(cmd Command) ([]byte, error) {
	switch c := cmd.(type) {
	case Refresh, RefreshContent, Mute, Navigate, Repeat, Mosaic, Connected, RTSPControl:
		return json.Marshal(c)
	default:
		return nil, fmt.Errorf("unknown command type %T", cmd)
	}
}
