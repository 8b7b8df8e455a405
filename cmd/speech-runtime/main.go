package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaxonlabs/jaxon/cmd/utils"
	"github.com/jaxonlabs/jaxon/internal/config"
	"github.com/jaxonlabs/jaxon/internal/eventbus"
	"github.com/jaxonlabs/jaxon/internal/events"
	"github.com/jaxonlabs/jaxon/internal/speech"
)

// The speech runtime turns final answers into audio. It consumes
// turn-completed events off the bus, so playback never blocks a turn and a
// playback failure costs nothing but a log line.
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	synthesizer := speech.NewSynthesizer(speech.Config{
		APIKey:       cfg.OpenAI.APIKey,
		APIBase:      cfg.OpenAI.APIBase,
		Model:        cfg.OpenAI.TTSModel,
		Voice:        cfg.OpenAI.TTSVoice,
		Instructions: cfg.OpenAI.TTSInstructions,
	})
	player := speech.NewPlayer(cfg.Speech.PlayerCommand)

	bus, err := eventbus.NewNATSBus(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer bus.Close()

	err = bus.Subscribe(events.TurnCompletedEventName, "speech-runtime", func(ctx context.Context, data []byte) {
		event, ok := utils.UnmarshalEvent[events.TurnCompletedEvent](data, events.TurnCompletedEventName)
		if !ok {
			return
		}
		if event.Reply == "" {
			return
		}

		speakCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		log.Printf("[%s] Speaking reply (%d chars)", event.ConversationID, len(event.Reply))
		if err := speech.Speak(speakCtx, synthesizer, player, event.Reply); err != nil {
			log.Printf("[%s] Speech playback failed: %v", event.ConversationID, err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to subscribe to %s: %v", events.TurnCompletedEventName, err)
	}

	log.Println("Speech runtime started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Speech runtime stopped")
}
