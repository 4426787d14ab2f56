package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigateValidation(t *testing.T) {
	cmd, err := NewNavigate(DirectionNext)
	require.NoError(t, err)
	assert.Equal(t, TypeNavigate, cmd.CommandType())

	_, err = NewNavigate(Direction("up"))
	assert.Error(t, err)

	_, err = NewNavigate(Direction(""))
	assert.Error(t, err)
}

func TestMosaicValidation(t *testing.T) {
	for _, action := range []MosaicAction{MosaicToggle, MosaicShow, MosaicHide} {
		_, err := NewMosaic(action, "admin")
		assert.NoError(t, err)
	}

	_, err := NewMosaic(MosaicAction("invert"), "admin")
	assert.Error(t, err)
}

func TestEncodeCarriesTypeTag(t *testing.T) {
	payload, err := Encode(NewMute(true))
	require.NoError(t, err)

	var env struct {
		Type  string `json:"type"`
		Muted bool   `json:"muted"`
	}
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, "mute", env.Type)
	assert.True(t, env.Muted)
}

func TestEncodeRefreshForced(t *testing.T) {
	payload, err := Encode(NewRefresh("broadcast", true))
	require.NoError(t, err)

	var env struct {
		Type   string `json:"type"`
		Source string `json:"source"`
		Forced bool   `json:"forced"`
	}
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, "refresh", env.Type)
	assert.Equal(t, "broadcast", env.Source)
	assert.True(t, env.Forced)
}

func TestEncodeRejectsForeignType(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)
}
