package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PublishReachesTopicSubscribers(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	orders := r.Subscribe("order-paid")
	other := r.Subscribe("order-deleted")

	delivered := r.Publish("order-paid", "payload")
	assert.Equal(t, 1, delivered)

	event := <-orders.C
	assert.Equal(t, "order-paid", event.Topic)
	assert.Equal(t, "payload", event.Payload)

	select {
	case <-other.C:
		t.Fatal("subscriber received an event for another topic")
	default:
	}
}

func TestRegistry_PublishWithoutSubscribers(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	assert.Equal(t, 0, r.Publish("order-paid", "payload"))
}

func TestRegistry_SlowSubscriberIsSkipped(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	slow := r.Subscribe("order-paid")
	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, r.Publish("order-paid", i))
	}

	// Buffer full: publish moves on without blocking.
	assert.Equal(t, 0, r.Publish("order-paid", "overflow"))

	drained := 0
	for i := 0; i < subscriberBuffer; i++ {
		<-slow.C
		drained++
	}
	assert.Equal(t, subscriberBuffer, drained)
}

func TestRegistry_Unsubscribe(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	sub := r.Subscribe("order-paid")
	r.Unsubscribe(sub)

	assert.Equal(t, 0, r.Publish("order-paid", "payload"))

	_, open := <-sub.C
	assert.False(t, open)
}

func TestRegistry_CloseStopsEverything(t *testing.T) {
	r := NewRegistry()
	sub := r.Subscribe("order-paid")

	r.Close()

	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, r.Publish("order-paid", "payload"))

	late := r.Subscribe("order-paid")
	_, open = <-late.C
	assert.False(t, open)
}
