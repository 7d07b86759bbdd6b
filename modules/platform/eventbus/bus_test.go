package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInOrderToMatchingSubscribers(t *testing.T) {
	b := NewBus()

	var all, frames []string
	b.Subscribe(nil, func(e *Event) { all = append(all, e.Source) })
	b.Subscribe([]EventType{EventFrame}, func(e *Event) { frames = append(frames, e.Source) })

	b.Publish(NewEvent(EventFrame).WithSource("1"))
	b.Publish(NewEvent(EventNotification).WithSource("2"))
	b.Publish(NewEvent(EventFrame).WithSource("3"))

	assert.Equal(t, []string{"1", "2", "3"}, all)
	assert.Equal(t, []string{"1", "3"}, frames)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	n := 0
	unsub := b.Subscribe(nil, func(*Event) { n++ })

	b.Publish(NewEvent(EventFrame))
	unsub()
	unsub()
	b.Publish(NewEvent(EventFrame))
	assert.Equal(t, 1, n)
}

func TestBus_PanickingSubscriberIsIsolated(t *testing.T) {
	b := NewBus()
	got := 0
	b.Subscribe(nil, func(*Event) { panic("boom") })
	b.Subscribe(nil, func(*Event) { got++ })

	require.NotPanics(t, func() { b.Publish(NewEvent(EventNotification)) })
	assert.Equal(t, 1, got)
}

func TestBus_History(t *testing.T) {
	b := NewBus(WithHistoryLimit(3))
	for _, s := range []string{"a", "b", "c", "d"} {
		typ := EventFrame
		if s == "c" {
			typ = EventNotification
		}
		b.Publish(NewEvent(typ).WithSource(s))
	}

	h := b.GetHistory(0)
	require.Len(t, h, 3)
	assert.Equal(t, "b", h[0].Source)
	assert.Equal(t, "d", h[2].Source)

	assert.Len(t, b.GetHistory(2), 2)

	frames := b.GetHistoryByType([]EventType{EventFrame}, 10)
	require.Len(t, frames, 2)
	assert.Equal(t, "b", frames[0].Source)
	assert.Equal(t, "d", frames[1].Source)
}

func TestEvent_JSON(t *testing.T) {
	data, err := NewEvent(EventFrame).WithSource("web").WithData("title", "Reports").JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"frame"`)
	assert.Contains(t, string(data), `"title":"Reports"`)
}
