package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight-be/config"
	"github.com/finsight-ai/finsight-be/handler"
	"github.com/finsight-ai/finsight-be/middleware"
	"github.com/finsight-ai/finsight-be/repository"
	"github.com/finsight-ai/finsight-be/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the assistant server",
	Long:  `Starts the HTTP server that handles document upload, news ingestion, and grounded Q&A.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		chunker, err := service.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
		if err != nil {
			log.Fatalf("Invalid chunking config: %v", err)
		}

		// Initialize services
		embedder := service.NewGeminiEmbedding(cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.RequestTimeout)
		llm := service.NewGroqService(cfg.GroqEndpoint, cfg.GroqAPIKey, cfg.RequestTimeout)
		composer := service.NewComposer(llm)

		repo := repository.NewDocumentRepo()
		sessions := service.NewSessionStore()
		retriever := service.NewRetriever(embedder, repo)
		assistant := service.NewAssistantService(retriever, composer, sessions, cfg.DefaultModel)

		pdfService := service.NewPDFService()
		fileService, err := service.NewFileService(cfg.UploadDir, pdfService, chunker, embedder, repo)
		if err != nil {
			log.Fatalf("Failed to init file service: %v", err)
		}

		newsService := service.NewNewsService(cfg.IndexDir, chunker, embedder, composer, cfg.RequestTimeout)
		if err := newsService.LoadIndex(); err != nil {
			log.Fatalf("Failed to load news index: %v", err)
		}

		csvService := service.NewCSVService()
		auth := service.NewStaticAuthenticator(nil)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		loginHandler := handler.NewLoginHandler(auth)
		uploadHandler := handler.NewUploadHandler(fileService, repo)
		documentHandler := handler.NewDocumentHandler(cfg.UploadDir)
		sessionHandler := handler.NewSessionHandler(assistant, sessions, cfg)
		newsHandler := handler.NewNewsHandler(newsService, cfg)
		csvHandler := handler.NewCSVHandler(csvService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		apiV1.POST("/login", loginHandler.HandleLogin)

		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware)
		{
			protected.POST("/documents/upload", uploadHandler.UploadDocumentHandler)
			protected.GET("/documents", uploadHandler.ListDocumentsHandler)
			protected.GET("/documents/pdf", documentHandler.ServeDocument)

			protected.POST("/sessions", sessionHandler.HandleCreateSession)
			protected.GET("/sessions", sessionHandler.HandleListSessions)
			protected.POST("/sessions/:id/ask", sessionHandler.HandleAsk)
			protected.POST("/sessions/:id/summary", sessionHandler.HandleSummary)
			protected.GET("/sessions/:id/export", sessionHandler.HandleExport)
			protected.POST("/sessions/reset", sessionHandler.HandleReset)

			protected.POST("/news/process", newsHandler.HandleProcessURLs)
			protected.POST("/news/ask", newsHandler.HandleAsk)
			protected.POST("/news/summary", newsHandler.HandleSummary)
			protected.GET("/news/history", newsHandler.HandleHistory)
			protected.GET("/news/export", newsHandler.HandleExport)
			protected.POST("/news/clear", newsHandler.HandleClear)

			protected.POST("/csv/analyze", csvHandler.HandleAnalyze)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
