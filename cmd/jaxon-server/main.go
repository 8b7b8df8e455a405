package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaxonlabs/jaxon/internal/agent"
	"github.com/jaxonlabs/jaxon/internal/config"
	"github.com/jaxonlabs/jaxon/internal/eventbus"
	"github.com/jaxonlabs/jaxon/internal/gateway"
	"github.com/jaxonlabs/jaxon/internal/store"
	"github.com/jaxonlabs/jaxon/internal/tools"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	prompt, err := os.ReadFile(cfg.Agent.PromptPath)
	if err != nil {
		log.Fatalf("Failed to read prompt file: %v", err)
	}

	redisClient, err := store.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	favorites := store.NewFavorites(redisClient)
	conversations := store.NewConversations(redisClient)

	registry := tools.NewRegistry()
	gatewayCfg := gateway.Config{
		APIKey:       cfg.OpenAI.APIKey,
		APIBase:      cfg.OpenAI.APIBase,
		Model:        cfg.OpenAI.Model,
		Instructions: string(prompt),
	}

	if cfg.RetrievalMode() {
		gatewayCfg.VectorStoreID = cfg.Agent.VectorStoreID
		log.Printf("Retrieval mode enabled with vector store %s", cfg.Agent.VectorStoreID)
	} else {
		if err := registerTools(registry, cfg, favorites); err != nil {
			log.Fatalf("Failed to register tools: %v", err)
		}
		gatewayCfg.Tools = registry.DescribeAll()
		log.Printf("Registered %d tools", len(gatewayCfg.Tools))
	}

	gw, err := gateway.NewOpenAIGateway(gatewayCfg)
	if err != nil {
		log.Fatalf("Failed to create model gateway: %v", err)
	}

	bus, err := eventbus.NewNATSBus(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer bus.Close()

	loop := agent.NewLoop(gw, registry,
		agent.WithMaxToolCycles(cfg.Agent.MaxToolCycles),
		agent.WithEventBus(bus),
	)
	turns := agent.NewTurnController(loop, agent.WithTurnEventBus(bus))

	chat := newChatServer(turns, conversations, cfg.Agent.Greeting)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: chat.router(),
	}

	go func() {
		log.Printf("Jaxon server starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Jaxon server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Jaxon server stopped")
}

// registerTools binds a handler to every specification in the tools file. A
// specification without a handler is a startup-fatal misconfiguration.
func registerTools(registry *tools.Registry, cfg *config.Config, favorites *store.Favorites) error {
	specs, err := tools.LoadSpecifications(cfg.Agent.ToolsPath)
	if err != nil {
		return err
	}

	handlers := map[string]tools.Handler{
		"locate_book":    tools.LocateBookHandler(),
		"save_book":      tools.SaveBookHandler(favorites, cfg.Agent.UserID),
		"list_favorites": tools.ListFavoritesHandler(favorites, cfg.Agent.UserID),
		"place_on_hold":  tools.PlaceOnHoldHandler(),
		"renew_book":     tools.RenewBookHandler(),
	}

	for _, spec := range specs {
		handler, ok := handlers[spec.Name]
		if !ok {
			return fmt.Errorf("no handler bound for tool %q", spec.Name)
		}
		if err := registry.Register(spec, handler); err != nil {
			return err
		}
	}
	return nil
}
