package config

type SimulatorConfig struct {
	HouseCount       int     `toml:"house_count"`
	PanelCapacityKWp float64 `toml:"panel_capacity_kwp"`
	Efficiency       float64 `toml:"efficiency"`
	// Inclusive, hours of the simulated clock
	DaylightStartHour int `toml:"daylight_start_hour"`
	DaylightEndHour   int `toml:"daylight_end_hour"`
	// How often the runner triggers a tick
	RefreshIntervalSeconds int `toml:"refresh_interval_seconds"`
	// 0 seeds from the current time
	Seed int64 `toml:"seed"`

	ListenAddress      string `toml:"listen_address"`
	ListenPort         int    `toml:"listen_port"`
	ReportLinesPerPage int    `toml:"report_lines_per_page"`

	Agent   AgentConfig   `toml:"agent"`
	Publish PublishConfig `toml:"publish"`
}

// AgentConfig points at an OpenAI compatible chat completions endpoint.
// The API key is read from LLM_API_KEY and never stored in the file.
type AgentConfig struct {
	Endpoint       string `toml:"endpoint"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Empty broker settings disable that publisher.
type PublishConfig struct {
	MQTTBroker   string   `toml:"mqtt_broker"`
	MQTTClientID string   `toml:"mqtt_client_id"`
	MQTTTopic    string   `toml:"mqtt_topic"`
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
}

type DashboardConfig struct {
	SimulatorAPIHost string `toml:"simulator_api_host"`
	TLSEnabled       bool   `toml:"tls_enabled"`
	ChartWidth       int    `toml:"chart_width"`
	ChartHeight      int    `toml:"chart_height"`
	// Ticks kept in memory for the chart
	HistoryLength int `toml:"history_length"`
}
