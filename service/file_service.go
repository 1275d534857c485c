package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/finsight-ai/finsight-be/database"
	"github.com/finsight-ai/finsight-be/repository"
	"github.com/finsight-ai/finsight-be/types"
	"github.com/google/uuid"
)

// FileService ingests uploaded PDF files: save to disk, extract text, chunk,
// embed, and register a per-document vector index. The pipeline is
// all-or-nothing; a failed step leaves no document and no index behind.
type FileService struct {
	uploadDir  string
	pdfService *PDFService
	chunker    *Chunker
	embedder   EmbeddingService
	repo       *repository.DocumentRepo
}

func NewFileService(
	uploadDir string,
	pdfService *PDFService,
	chunker *Chunker,
	embedder EmbeddingService,
	repo *repository.DocumentRepo,
) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileService{
		uploadDir:  uploadDir,
		pdfService: pdfService,
		chunker:    chunker,
		embedder:   embedder,
		repo:       repo,
	}, nil
}

// UploadPDF saves and indexes one uploaded PDF, returning the registered
// document.
func (s *FileService) UploadPDF(ctx context.Context, req types.UploadRequest, file *multipart.FileHeader) (*types.Document, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	path, err := s.saveUpload(file)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = file.Filename
	}

	return s.IngestPDF(ctx, path, title)
}

// IngestPDF extracts, chunks, embeds, and indexes a PDF already on disk.
func (s *FileService) IngestPDF(ctx context.Context, path, title string) (*types.Document, error) {
	text, err := s.pdfService.ExtractText(path)
	if err != nil {
		return nil, err
	}

	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", title, types.ErrEmptyInput)
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	doc := types.Document{
		ID:         uuid.NewString(),
		Title:      title,
		Source:     path,
		Kind:       types.DocumentKindPDF,
		ChunkCount: len(chunks),
		CreatedAt:  time.Now().Unix(),
	}

	entries := make([]database.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = database.IndexEntry{
			ID:         fmt.Sprintf("%s-%d", doc.ID, i),
			Content:    chunk,
			DocumentID: doc.ID,
			Source:     title,
			Vector:     vectors[i],
		}
	}

	index := database.NewMemoryIndex()
	if err := index.Build(entries); err != nil {
		return nil, err
	}
	if err := s.repo.Register(doc, index); err != nil {
		return nil, err
	}
	return &doc, nil
}

// saveUpload copies the multipart file into the upload directory under a
// sanitized name with a timestamp suffix.
func (s *FileService) saveUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	filename := fmt.Sprintf("%s_%d%s", sanitizeFileName(base), time.Now().Unix(), ext)

	path := filepath.Join(s.uploadDir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}
