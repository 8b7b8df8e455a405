package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jaxonlabs/jaxon/internal/config"
	"github.com/jaxonlabs/jaxon/internal/vectorstore"
)

// vector-ingest keeps the retrieval index in sync with a local folder of
// library PDFs.
//
//	vector-ingest -store vs_... -folder ./pdfs          upload missing PDFs
//	vector-ingest -store vs_... -wipe                   empty the store
//	vector-ingest -store vs_... -wipe -delete-files     also delete uploads
func main() {
	configPath := flag.String("config", "", "path to config file")
	storeID := flag.String("store", "", "vector store ID (defaults to agent.vector_store_id)")
	folder := flag.String("folder", "", "folder of PDF files to upload")
	wipe := flag.Bool("wipe", false, "remove all files from the vector store")
	deleteFiles := flag.Bool("delete-files", false, "with -wipe, also delete files from storage")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	id := *storeID
	if id == "" {
		id = cfg.Agent.VectorStoreID
	}
	if id == "" {
		log.Fatal("A vector store ID is required (-store or agent.vector_store_id)")
	}

	client := vectorstore.NewClient(cfg.OpenAI.APIKey)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if *wipe {
		if err := client.Wipe(ctx, id, *deleteFiles); err != nil {
			log.Fatalf("Wipe failed: %v", err)
		}
		return
	}

	if *folder == "" {
		log.Fatal("A folder of PDFs is required (-folder)")
	}

	uploaded, err := client.SyncFolder(ctx, id, *folder)
	if err != nil {
		log.Fatalf("Sync failed after %d uploads: %v", uploaded, err)
	}
	log.Printf("Sync complete: %d files uploaded", uploaded)
}
