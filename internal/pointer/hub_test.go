package pointer

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAndPublish(t *testing.T) {
	hub := NewHub()

	var got []Press
	id, release := hub.Subscribe(func(p Press) { got = append(got, p) })
	defer release()

	assert.NotEmpty(t, id)
	assert.Equal(t, 1, hub.Len())

	hub.Publish(Press{X: 3, Y: 4, Button: tea.MouseButtonLeft})
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].X)
	assert.Equal(t, 4, got[0].Y)
}

func TestPublishOrder(t *testing.T) {
	hub := NewHub()

	var order []string
	_, r1 := hub.Subscribe(func(Press) { order = append(order, "first") })
	_, r2 := hub.Subscribe(func(Press) { order = append(order, "second") })
	defer r1()
	defer r2()

	hub.Publish(Press{})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestReleaseIsIdempotent(t *testing.T) {
	hub := NewHub()

	calls := 0
	_, release := hub.Subscribe(func(Press) { calls++ })
	_, keep := hub.Subscribe(func(Press) {})
	defer keep()

	release()
	release()
	assert.Equal(t, 1, hub.Len())

	hub.Publish(Press{})
	assert.Equal(t, 0, calls)
}

func TestReleaseDuringPublish(t *testing.T) {
	hub := NewHub()

	var release func()
	calls := 0
	_, release = hub.Subscribe(func(Press) {
		calls++
		release()
	})

	hub.Publish(Press{})
	hub.Publish(Press{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, hub.Len())
}

func TestFromMouse(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.MouseMsg
		ok   bool
	}{
		{"left press", tea.MouseMsg{X: 1, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, true},
		{"right press", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, true},
		{"release", tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, false},
		{"motion", tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}, false},
		{"wheel", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := FromMouse(tt.msg)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestPublishMouse(t *testing.T) {
	hub := NewHub()
	calls := 0
	_, release := hub.Subscribe(func(Press) { calls++ })
	defer release()

	assert.False(t, hub.PublishMouse(tea.MouseMsg{Action: tea.MouseActionMotion}))
	assert.True(t, hub.PublishMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}))
	assert.Equal(t, 1, calls)
}

func TestDefaultHubIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestRect(t *testing.T) {
	r := Rect{X: 2, Y: 1, Width: 4, Height: 2}

	assert.True(t, r.Contains(2, 1))
	assert.True(t, r.Contains(5, 2))
	assert.False(t, r.Contains(6, 1))
	assert.False(t, r.Contains(2, 3))
	assert.False(t, Rect{}.Contains(0, 0))

	u := r.Union(Rect{X: 0, Y: 3, Width: 1, Height: 1})
	assert.Equal(t, Rect{X: 0, Y: 1, Width: 6, Height: 3}, u)
	assert.Equal(t, r, r.Union(Rect{}))
}
