package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight-be/config"
	"github.com/finsight-ai/finsight-be/service"
	"github.com/finsight-ai/finsight-be/utils"
)

// uploadDocumentCmd represents the upload-document command
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document",
	Short: "Stage a PDF into the upload directory",
	Long: `Copies a PDF into the server's upload directory under a timestamped
name and verifies that text can be extracted from it. Staged files are served
by the documents endpoint; indexing happens when the file is uploaded through
the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		destPath, err := utils.CopyFileWithTimestamp(filePath, cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to stage file: %v", err)
		}

		chunker, err := service.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
		if err != nil {
			log.Fatalf("Invalid chunking config: %v", err)
		}
		text, err := service.NewPDFService().ExtractText(destPath)
		if err != nil {
			log.Fatalf("Failed to extract text: %v", err)
		}
		chunks := chunker.Split(text)
		if len(chunks) == 0 {
			log.Fatalf("No extractable text in %s", filePath)
		}

		log.Printf("Staged %s (%d chars, %d chunks)", destPath, len(text), len(chunks))
	},
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)
	uploadDocumentCmd.Flags().StringP("file", "f", "", "path to the PDF to stage")
}
