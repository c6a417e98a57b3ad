// Package dispatcher subscribes to one topic per known station and routes
// each inbound message through the validate-persist-aggregate pipeline. A
// failing message is logged and dropped; it never affects other messages.
package dispatcher

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Processor handles one raw message for one station.
type Processor interface {
	Process(ctx context.Context, stationID int64, payload []byte) error
}

// Dispatcher owns an injected MQTT client and fans inbound messages out to
// the pipeline. Stations are fixed at startup; topics are not added for
// stations provisioned later.
type Dispatcher struct {
	client   mqtt.Client
	pipeline Processor
	stations []int64
}

// New creates a Dispatcher for the given stations.
func New(client mqtt.Client, pipeline Processor, stations []int64) *Dispatcher {
	return &Dispatcher{client: client, pipeline: pipeline, stations: stations}
}

// Run connects to the broker, subscribes to every station topic and blocks
// until ctx is done. A failure to connect or to establish any initial
// subscription is returned and treated as fatal by the caller.
func (d *Dispatcher) Run(ctx context.Context) error {
	if token := d.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect broker: %w", token.Error())
	}

	for _, id := range d.stations {
		topic := topicForStation(id)
		if token := d.client.Subscribe(topic, 1, d.onMessage); token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		log.Printf("subscribed to topic %q", topic)
	}
	log.Printf("dispatcher ready, %d station subscriptions", len(d.stations))

	<-ctx.Done()
	d.client.Disconnect(250)
	return nil
}

// onMessage hands each delivery to its own unit of work. Messages for the
// same station may be processed concurrently; persistence and aggregation
// are idempotent per key, so concurrent buckets converge.
func (d *Dispatcher) onMessage(_ mqtt.Client, msg mqtt.Message) {
	topic := msg.Topic()
	payload := msg.Payload()
	go d.handle(topic, payload)
}

func (d *Dispatcher) handle(topic string, payload []byte) {
	stationID, err := stationFromTopic(topic)
	if err != nil {
		log.Printf("dropped message on topic %q: %v", topic, err)
		return
	}
	if err := d.pipeline.Process(context.Background(), stationID, payload); err != nil {
		log.Printf("[station %d] dropped message: %v", stationID, err)
	}
}

// topicForStation maps a station id to its topic, a single path segment.
func topicForStation(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}

// stationFromTopic extracts the numeric station id from a topic.
func stationFromTopic(topic string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(topic, "/"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("no station id in topic: %w", err)
	}
	return id, nil
}
