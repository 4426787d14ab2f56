package dispatch

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castboard/internal/command"
	"castboard/internal/models"
	"castboard/internal/registry"
)

type mockChannel struct {
	mu   sync.Mutex
	sent [][]byte
}

func (m *mockChannel) Send(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, payload)
	return nil
}

func (m *mockChannel) Transport() registry.Transport { return registry.TransportSSE }
func (m *mockChannel) Close()                        {}

func (m *mockChannel) payloads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	copy(out, m.sent)
	return out
}

type recordingLog struct {
	mu     sync.Mutex
	events []models.DispatchEvent
}

func (r *recordingLog) RecordDispatch(ev models.DispatchEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func TestSendRefreshDeliveryLifecycle(t *testing.T) {
	screens := registry.NewScreenRegistry()
	d := New(screens)

	ch := &mockChannel{}
	screens.Register("s1", ch, models.DeviceInfo{})

	res := d.SendRefresh("s1", "admin", true)
	assert.True(t, res.Delivered)

	screens.Unregister("s1")

	res = d.SendRefresh("s1", "admin", true)
	assert.False(t, res.Delivered, "offline screen is a reportable outcome, not an error")
}

func TestSendMuteCarriesResultingState(t *testing.T) {
	screens := registry.NewScreenRegistry()
	d := New(screens)

	ch := &mockChannel{}
	screens.Register("s1", ch, models.DeviceInfo{})

	// Duplicate re-sends are allowed; the dispatcher never suppresses.
	assert.True(t, d.SendMute("s1", true).Delivered)
	assert.True(t, d.SendMute("s1", true).Delivered)

	payloads := ch.payloads()
	require.Len(t, payloads, 2)
	for _, p := range payloads {
		var env struct {
			Type  string `json:"type"`
			Muted bool   `json:"muted"`
		}
		require.NoError(t, json.Unmarshal(p, &env))
		assert.Equal(t, "mute", env.Type)
		assert.True(t, env.Muted)
	}
}

func TestSendNavigateValidation(t *testing.T) {
	screens := registry.NewScreenRegistry()
	d := New(screens)
	screens.Register("s1", &mockChannel{}, models.DeviceInfo{})

	res, err := d.SendNavigate("s1", command.DirectionNext)
	require.NoError(t, err)
	assert.True(t, res.Delivered)

	_, err = d.SendNavigate("s1", command.Direction("sideways"))
	require.Error(t, err, "invalid direction is a caller error, rejected before dispatch")
}

func TestSendMosaicValidation(t *testing.T) {
	screens := registry.NewScreenRegistry()
	d := New(screens)
	screens.Register("s1", &mockChannel{}, models.DeviceInfo{})

	res, err := d.SendMosaic("s1", command.MosaicToggle, "admin")
	require.NoError(t, err)
	assert.True(t, res.Delivered)

	_, err = d.SendMosaic("s1", command.MosaicAction("flip"), "admin")
	require.Error(t, err)
}

func TestDispatchRecorder(t *testing.T) {
	screens := registry.NewScreenRegistry()
	rec := &recordingLog{}
	d := New(screens, WithRecorder(rec))

	screens.Register("s1", &mockChannel{}, models.DeviceInfo{})
	d.SendRefresh("s1", "admin", false)
	d.SendRefresh("offline", "admin", false)

	require.Len(t, rec.events, 2)
	assert.Equal(t, "s1", rec.events[0].ScreenID)
	assert.True(t, rec.events[0].Delivered)
	assert.Equal(t, "offline", rec.events[1].ScreenID)
	assert.False(t, rec.events[1].Delivered)
}
