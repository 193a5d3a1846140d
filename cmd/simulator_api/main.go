// Simulator API runs the solar simulation, stores every tick and serves it over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/agent"
	"github.com/NotCoffee418/smartcity_solar/pkg/aggregator"
	"github.com/NotCoffee418/smartcity_solar/pkg/api"
	"github.com/NotCoffee418/smartcity_solar/pkg/config"
	"github.com/NotCoffee418/smartcity_solar/pkg/pathing"
	"github.com/NotCoffee418/smartcity_solar/pkg/publish"
	"github.com/NotCoffee418/smartcity_solar/pkg/runner"
	"github.com/NotCoffee418/smartcity_solar/pkg/simclock"
	"github.com/NotCoffee418/smartcity_solar/pkg/simulator"
	"github.com/NotCoffee418/smartcity_solar/pkg/solardb"
	"github.com/NotCoffee418/smartcity_solar/pkg/solarmetrics"
	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const aggregationInterval = 5 * time.Minute

func main() {
	// Optional, environment variables win
	_ = godotenv.Load()

	if err := pathing.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}

	// Load config
	if err := config.LoadSimulatorConfig(); err != nil {
		log.Fatalf("Failed to load simulator config: %v", err)
	}
	cfg := config.ActiveSimulatorConfig

	store, err := solardb.Open(pathing.GetSolarDbPath())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := simulator.New(rand.New(rand.NewSource(seed)), simclock.System{}, simulator.Options{
		Houses:            simulator.Houses(cfg.HouseCount),
		PanelCapacityKWp:  cfg.PanelCapacityKWp,
		Efficiency:        cfg.Efficiency,
		DaylightStartHour: cfg.DaylightStartHour,
		DaylightEndHour:   cfg.DaylightEndHour,
	})
	tickRunner := runner.New(sim, store, cfg.RefreshInterval())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := solarmetrics.NewMetrics(registry)

	publisher := setupPublishers(cfg.Publish)
	defer publisher.Close()

	agg := aggregator.New(store.DB())

	server := api.NewServer(api.Deps{
		Store:              store,
		Runner:             tickRunner,
		Aggregator:         agg,
		Answerer:           setupAnswerer(cfg.Agent, store),
		Publisher:          publisher,
		Metrics:            metrics,
		ReportDir:          pathing.GetReportDir(),
		ReportLinesPerPage: cfg.ReportLinesPerPage,
	})
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start simulating, the runner is the only writer of the store
	tickRunner.StartSimulating(server.HandleTick, func(err error) {
		server.HandleTickError(err)
		log.Printf("Simulation stopped after repeated failures: %v", err)
	})
	defer tickRunner.StopSimulating()

	go agg.RunPeriodically(ctx, aggregationInterval, time.Now)

	listener := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)
	httpServer := &http.Server{
		Addr:    listener,
		Handler: handlers.LoggingHandler(os.Stdout, server.Router()),
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("Starting Smart City Solar Simulator API on %s (%d houses, %.1f kWp, every %v)",
		listener, cfg.HouseCount, cfg.PanelCapacityKWp, cfg.RefreshInterval())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// setupPublishers connects every configured broker. Unreachable brokers are skipped.
func setupPublishers(cfg config.PublishConfig) publish.Multi {
	var publishers publish.Multi

	if cfg.MQTTBroker != "" {
		mqttPublisher, err := publish.NewMQTTPublisher(publish.MQTTConfig{
			Broker:       cfg.MQTTBroker,
			ClientID:     cfg.MQTTClientID,
			Username:     os.Getenv("MQTT_USERNAME"),
			Password:     os.Getenv("MQTT_PASSWORD"),
			TopicPattern: cfg.MQTTTopic,
		})
		if err != nil {
			log.Printf("MQTT publishing disabled: %v", err)
		} else {
			publishers = append(publishers, mqttPublisher)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publishers = append(publishers, publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
	}
	return publishers
}

// setupAnswerer returns nil when no API key is available, which disables /ask.
func setupAnswerer(cfg config.AgentConfig, store *solardb.Store) agent.Answerer {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		log.Println("LLM_API_KEY not set, natural language questions are disabled")
		return nil
	}
	client := agent.NewChatClient(cfg.Endpoint, cfg.Model, apiKey, time.Duration(cfg.TimeoutSeconds)*time.Second)
	return agent.NewSQLChain(client, store)
}
