package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/livefeed"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	// e.g. "smartcity/{house_id}/reading"
	TopicPattern string
}

type MQTTPublisher struct {
	client       mqtt.Client
	topicPattern string
}

// NewMQTTPublisher connects to the broker.
func NewMQTTPublisher(config MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Println("MQTT: Connection established")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("MQTT: Connection lost: %v", err)
	})
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Println("MQTT: Connected to broker:", config.Broker)
	return &MQTTPublisher{client: client, topicPattern: config.TopicPattern}, nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, update *livefeed.TickUpdate) error {
	var errs []error
	for _, msg := range buildMessages(update) {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		payload, err := json.Marshal(msg)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to marshal reading: %w", err))
			continue
		}

		topic := formatTopic(p.topicPattern, msg.HouseID)
		token := p.client.Publish(topic, 1, false, payload)
		if token.Wait() && token.Error() != nil {
			errs = append(errs, fmt.Errorf("failed to publish to %s: %w", topic, token.Error()))
		}
	}
	return errors.Join(errs...)
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	log.Println("MQTT: Disconnected")
	return nil
}

// formatTopic replaces {house_id} placeholder with the house id
func formatTopic(topicPattern string, houseID int) string {
	return strings.ReplaceAll(topicPattern, "{house_id}", strconv.Itoa(houseID))
}
