package selectbox

import "github.com/normanking/oficina/internal/pointer"

// Mount subscribes the select to hub so presses outside its bounds close the
// popup. A mounted select holds exactly one subscription; mounting again is
// a no-op until Unmount.
func (m *Model) Mount(hub *pointer.Hub) {
	if m.mounted || hub == nil {
		return
	}
	m.gen++
	gen := m.gen

	_, release := hub.Subscribe(func(p pointer.Press) {
		// a press delivered after Unmount (or a remount) belongs to a
		// stale registration and must not touch state
		if !m.mounted || m.gen != gen {
			return
		}
		if m.Bounds().Contains(p.X, p.Y) {
			return
		}
		m.dismissOutside()
	})

	m.hub = hub
	m.release = release
	m.mounted = true
}

// Unmount releases the hub subscription and drops transient state.
func (m *Model) Unmount() {
	if !m.mounted {
		return
	}
	m.mounted = false
	m.release()
	m.release = nil
	m.hub = nil
	m.open = false
	m.focus = FocusNone
}

// Mounted reports whether the select holds a hub subscription.
func (m *Model) Mounted() bool { return m.mounted }
