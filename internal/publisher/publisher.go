package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jgoulah/gridtariff/internal/config"
	"github.com/jgoulah/gridtariff/internal/logger"
	"github.com/jgoulah/gridtariff/internal/tariff"
)

// Publisher pushes comparison results to Home Assistant and MQTT
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
}

// New creates a publisher for whichever of MQTT and the HA HTTP API are enabled
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig) (*Publisher, error) {
	if !mqttCfg.Enabled && !haCfg.Enabled {
		return nil, fmt.Errorf("neither Home Assistant nor MQTT publishing is enabled in config")
	}

	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	p := &Publisher{
		topicPrefix: mqttCfg.GetTopicPrefix(),
		haConfig:    haCfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		// Unique ID so several instances can share a broker
		opts.SetClientID("gridtariff-" + uuid.NewString()[:8])
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
		p.client = client
	}

	return p, nil
}

// HAState is the body of a Home Assistant state update
type HAState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Summary is the cheapest-plan message published over MQTT
type Summary struct {
	Service   string             `json:"service"`
	From      string             `json:"from"`
	To        string             `json:"to"`
	Cheapest  string             `json:"cheapest"`
	TotalBill float64            `json:"total_bill"`
	Totals    map[string]float64 `json:"totals"`
}

// Publish sends a comparison to every enabled destination
func (p *Publisher) Publish(ctx context.Context, service string, r tariff.Range, c tariff.Comparison) error {
	summary := summarize(service, r, c)

	if p.haConfig.Enabled {
		if err := p.publishHA(ctx, summary); err != nil {
			return fmt.Errorf("publishing to Home Assistant: %w", err)
		}
		logger.Info("published state", "entity_id", p.haConfig.EntityID, "cheapest", summary.Cheapest)
	}

	if p.client != nil {
		if err := p.publishMQTT(summary, c); err != nil {
			return fmt.Errorf("publishing to MQTT: %w", err)
		}
		logger.Info("published topics", "prefix", p.topicPrefix, "plans", len(c.Entries))
	}

	return nil
}

func summarize(service string, r tariff.Range, c tariff.Comparison) Summary {
	s := Summary{
		Service:  service,
		From:     r.Start.Format("2006-01-02"),
		To:       r.End.Format("2006-01-02"),
		Cheapest: c.Cheapest,
		Totals:   make(map[string]float64, len(c.Entries)),
	}
	for _, e := range c.Entries {
		s.Totals[e.Name] = e.TotalBill
		if e.Name == c.Cheapest {
			s.TotalBill = e.TotalBill
		}
	}
	return s
}

func (p *Publisher) publishHA(ctx context.Context, s Summary) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimRight(p.haConfig.URL, "/"), p.haConfig.EntityID)

	attrs := map[string]any{
		"friendly_name":       "Cheapest tariff",
		"unit_of_measurement": "$",
		"cheapest_plan":       s.Cheapest,
		"service":             s.Service,
		"from":                s.From,
		"to":                  s.To,
	}
	for name, total := range s.Totals {
		attrs[slug(name)+"_total"] = total
	}

	body, err := json.Marshal(HAState{
		State:      fmt.Sprintf("%.2f", s.TotalBill),
		Attributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// 201 when the entity is created, 200 when updated
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func (p *Publisher) publishMQTT(s Summary, c tariff.Comparison) error {
	for _, e := range c.Entries {
		topic := fmt.Sprintf("%s/%s/total", p.topicPrefix, slug(e.Name))
		if err := p.send(topic, true, fmt.Sprintf("%.2f", e.TotalBill)); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return p.send(p.topicPrefix+"/cheapest", true, payload)
}

func (p *Publisher) send(topic string, retained bool, payload any) error {
	token := p.client.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("timed out publishing %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// slug turns a plan name into a topic or attribute segment
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
