package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"buildcode-backend/logger"
	"buildcode-backend/models"
	"buildcode-backend/storage"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"
)

// ErrJobNotFound is returned when an ingestion job does not exist
var ErrJobNotFound = errors.New("ingest job not found")

// embedConcurrency bounds parallel Gemini calls per document
const embedConcurrency = 4

// Pipeline step names, in execution order
const (
	stepExtractText        = "extract_text"
	stepSplitSections      = "split_sections"
	stepGenerateEmbeddings = "generate_embeddings"
)

// IngestJobRepository is the pipeline's view of job storage
type IngestJobRepository interface {
	Create(ctx context.Context, job *models.IngestJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.IngestJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.IngestJobStatus) error
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.IngestSteps) error
	Complete(ctx context.Context, id uuid.UUID) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// IngestVersionRepository is the pipeline's view of version storage
type IngestVersionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.BuildingCodeVersion, error)
	UpdateProcessingStatus(ctx context.Context, id uuid.UUID, status models.ProcessingStatus) error
}

// CodeSectionRepository is the pipeline's view of section storage
type CodeSectionRepository interface {
	CreateBatch(ctx context.Context, sections []*models.BuildingCodeSection) error
}

// CodeDocumentRepository is the pipeline's view of document records
type CodeDocumentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CodeDocument, error)
}

// IngestService runs uploaded code documents through extraction,
// sectioning and embedding
type IngestService struct {
	jobRepo       IngestJobRepository
	versionRepo   IngestVersionRepository
	sectionRepo   CodeSectionRepository
	documentRepo  CodeDocumentRepository
	embeddingRepo EmbeddingRepository
	store         storage.Storage
	embedder      Embedder
	log           *logger.Logger
}

// IngestServiceOption is a functional option for IngestService
type IngestServiceOption func(*IngestService)

// IngestWithJobRepository sets the ingest job repository
func IngestWithJobRepository(repo IngestJobRepository) IngestServiceOption {
	return func(s *IngestService) {
		s.jobRepo = repo
	}
}

// IngestWithVersionRepository sets the version repository
func IngestWithVersionRepository(repo IngestVersionRepository) IngestServiceOption {
	return func(s *IngestService) {
		s.versionRepo = repo
	}
}

// IngestWithSectionRepository sets the section repository
func IngestWithSectionRepository(repo CodeSectionRepository) IngestServiceOption {
	return func(s *IngestService) {
		s.sectionRepo = repo
	}
}

// IngestWithDocumentRepository sets the document repository
func IngestWithDocumentRepository(repo CodeDocumentRepository) IngestServiceOption {
	return func(s *IngestService) {
		s.documentRepo = repo
	}
}

// IngestWithEmbeddingRepository sets the embedding repository
func IngestWithEmbeddingRepository(repo EmbeddingRepository) IngestServiceOption {
	return func(s *IngestService) {
		s.embeddingRepo = repo
	}
}

// IngestWithStorage sets the blob storage backend
func IngestWithStorage(store storage.Storage) IngestServiceOption {
	return func(s *IngestService) {
		s.store = store
	}
}

// IngestWithEmbedder sets the embedding generator
func IngestWithEmbedder(embedder Embedder) IngestServiceOption {
	return func(s *IngestService) {
		s.embedder = embedder
	}
}

// IngestWithLogger sets the logger
func IngestWithLogger(log *logger.Logger) IngestServiceOption {
	return func(s *IngestService) {
		s.log = log
	}
}

// NewIngestService creates a new ingest service
func NewIngestService(opts ...IngestServiceOption) *IngestService {
	s := &IngestService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	return s
}

// StartIngestRequest identifies the document to ingest and, optionally,
// the chat whose semantic search should receive the embeddings
type StartIngestRequest struct {
	VersionID  uuid.UUID
	DocumentID uuid.UUID
	ChatID     *uuid.UUID
}

// StartIngestResult carries the job handle for status polling
type StartIngestResult struct {
	JobID uuid.UUID
}

// StartIngest records a pending job for a document. The caller is
// expected to run ProcessDocument in the background afterwards.
func (s *IngestService) StartIngest(ctx context.Context, req StartIngestRequest) (*StartIngestResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("ingest job repository not set")
	}

	steps := models.IngestSteps{
		{Name: stepExtractText, Status: "pending", Description: "Extract document text"},
		{Name: stepSplitSections, Status: "pending", Description: "Split text into code sections"},
	}
	if req.ChatID != nil {
		steps = append(steps, models.IngestStep{
			Name:        stepGenerateEmbeddings,
			Status:      "pending",
			Description: "Generate semantic search embeddings",
		})
	}

	job := &models.IngestJob{
		VersionID:  req.VersionID,
		DocumentID: req.DocumentID,
		ChatID:     req.ChatID,
		Status:     models.IngestStatusPending,
		Steps:      steps,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	return &StartIngestResult{JobID: job.ID}, nil
}

// GetJobStatusRequest identifies the job to look up
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult carries the current state of a job
type GetJobStatusResult struct {
	Job *models.IngestJob
}

// GetJobStatus retrieves an ingestion job for polling
func (s *IngestService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("ingest job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}

// ProcessDocument runs the full pipeline for a previously created job.
// Intended to run on a background context so a disconnecting uploader
// does not cancel the work.
func (s *IngestService) ProcessDocument(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return ErrJobNotFound
	}

	log := s.log.With("jobID", jobID, "versionID", job.VersionID)

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.IngestStatusInProgress); err != nil {
		return err
	}
	if err := s.versionRepo.UpdateProcessingStatus(ctx, job.VersionID, models.ProcessingActive); err != nil {
		return err
	}

	text, err := s.runExtract(ctx, job)
	if err != nil {
		s.markJobFailed(ctx, job, err)
		return err
	}

	sections, err := s.runSplit(ctx, job, text)
	if err != nil {
		s.markJobFailed(ctx, job, err)
		return err
	}
	log.Info("document sectioned", "sections", len(sections))

	if job.ChatID != nil {
		if err := s.runEmbed(ctx, job, sections); err != nil {
			s.markJobFailed(ctx, job, err)
			return err
		}
		log.Info("embeddings generated", "chatID", *job.ChatID)
	}

	if err := s.versionRepo.UpdateProcessingStatus(ctx, job.VersionID, models.ProcessingCompleted); err != nil {
		return err
	}
	if err := s.jobRepo.Complete(ctx, jobID); err != nil {
		return err
	}

	log.Info("ingest completed")
	return nil
}

func (s *IngestService) runExtract(ctx context.Context, job *models.IngestJob) (string, error) {
	if err := s.updateStepStatus(ctx, job, stepExtractText, "in_progress"); err != nil {
		return "", err
	}

	doc, err := s.documentRepo.GetByID(ctx, job.DocumentID)
	if err != nil {
		return "", fmt.Errorf("failed to load document record: %w", err)
	}

	reader, err := s.store.Download(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("failed to download document: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	text, err := ExtractText(doc.MimeType, data)
	if err != nil {
		return "", err
	}

	if err := s.updateStepStatus(ctx, job, stepExtractText, "completed"); err != nil {
		return "", err
	}
	return text, nil
}

func (s *IngestService) runSplit(ctx context.Context, job *models.IngestJob, text string) ([]*models.BuildingCodeSection, error) {
	if err := s.updateStepStatus(ctx, job, stepSplitSections, "in_progress"); err != nil {
		return nil, err
	}

	sections := SplitSections(job.VersionID, text)
	if len(sections) == 0 {
		return nil, errors.New("document contained no usable text")
	}

	if err := s.sectionRepo.CreateBatch(ctx, sections); err != nil {
		return nil, fmt.Errorf("failed to store sections: %w", err)
	}

	if err := s.updateStepStatus(ctx, job, stepSplitSections, "completed"); err != nil {
		return nil, err
	}
	return sections, nil
}

// runEmbed generates one textual embedding per section, with a bounded
// number of Gemini calls in flight
func (s *IngestService) runEmbed(ctx context.Context, job *models.IngestJob, sections []*models.BuildingCodeSection) error {
	if s.embedder == nil || s.embeddingRepo == nil {
		return errors.New("embedder not configured")
	}

	if err := s.updateStepStatus(ctx, job, stepGenerateEmbeddings, "in_progress"); err != nil {
		return err
	}

	chatID := *job.ChatID

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for _, section := range sections {
		g.Go(func() error {
			input := section.Title + "\n" + section.Content
			values, err := s.embedder.EmbedText(gctx, input)
			if err != nil {
				return fmt.Errorf("section %s: %w", section.SectionNumber, err)
			}

			embedding := &models.MultimodalEmbedding{
				ChatID:      &chatID,
				ContentType: models.ContentTypeTextual,
				Metadata: models.EmbeddingMetadata{
					"chatId":        chatID.String(),
					"versionId":     job.VersionID.String(),
					"sectionNumber": section.SectionNumber,
				},
				Embedding: pgvector.NewVector(values),
			}

			return s.embeddingRepo.Create(gctx, embedding)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return s.updateStepStatus(ctx, job, stepGenerateEmbeddings, "completed")
}

// updateStepStatus rewrites one step's status and persists the step list
func (s *IngestService) updateStepStatus(ctx context.Context, job *models.IngestJob, stepName, status string) error {
	for i := range job.Steps {
		if job.Steps[i].Name == stepName {
			job.Steps[i].Status = status
		}
	}
	job.CurrentStep = &stepName
	return s.jobRepo.UpdateProgress(ctx, job.ID, stepName, job.Steps)
}

// markJobFailed records the failure on both the job and its version.
// The error is reported to the poller, not the uploader.
func (s *IngestService) markJobFailed(ctx context.Context, job *models.IngestJob, cause error) {
	s.log.Error("ingest failed", "jobID", job.ID, "error", cause)

	if err := s.jobRepo.Fail(ctx, job.ID, cause.Error()); err != nil {
		s.log.Error("failed to mark job failed", "jobID", job.ID, "error", err)
	}
	if err := s.versionRepo.UpdateProcessingStatus(ctx, job.VersionID, models.ProcessingFailed); err != nil {
		s.log.Error("failed to mark version failed", "versionID", job.VersionID, "error", err)
	}
}
