package cmd

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight-be/config"
	"github.com/finsight-ai/finsight-be/service"
	"github.com/finsight-ai/finsight-be/types"
)

// ingestNewsCmd represents the ingest-news command
var ingestNewsCmd = &cobra.Command{
	Use:   "ingest-news [url...]",
	Short: "Fetch and index news article URLs",
	Long: `Fetches each URL, extracts the article text, and adds it to the
persistent news index used by the running server.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		chunker, err := service.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
		if err != nil {
			log.Fatalf("Invalid chunking config: %v", err)
		}

		embedder := service.NewGeminiEmbedding(cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.RequestTimeout)
		llm := service.NewGroqService(cfg.GroqEndpoint, cfg.GroqAPIKey, cfg.RequestTimeout)
		newsService := service.NewNewsService(cfg.IndexDir, chunker, embedder, service.NewComposer(llm), cfg.RequestTimeout)
		if err := newsService.LoadIndex(); err != nil {
			log.Fatalf("Failed to load news index: %v", err)
		}

		docs, err := newsService.ProcessURLs(context.Background(), args)

		var partial *types.PartialIngestError
		if err != nil && !errors.As(err, &partial) {
			log.Fatalf("Failed to ingest news: %v", err)
		}
		for _, doc := range docs {
			log.Printf("Indexed %q (%d chunks) from %s", doc.Title, doc.ChunkCount, doc.Source)
		}
		if partial != nil {
			for source, cause := range partial.Failed {
				log.Printf("Skipped %s: %v", source, cause)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestNewsCmd)
}
