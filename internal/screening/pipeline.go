package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/screening/internal/models"
	"github.com/talentsift/screening/internal/storage"
	"github.com/talentsift/screening/internal/store"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	GetCVDocument(ctx context.Context, id uuid.UUID) (*models.CVDocument, error)
	SetExtractedText(ctx context.Context, id uuid.UUID, text string) error
	UpdateCVStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkCVFailed(ctx context.Context, id uuid.UUID, message string, reason models.FailReason) error
	UpsertCandidateProfile(ctx context.Context, cvDocumentID uuid.UUID, profile *models.CandidateProfile) (uuid.UUID, error)
	InsertAIOutput(ctx context.Context, cvDocumentID uuid.UUID, outputType, provider, model string, payload []byte) error
	UpsertMatch(ctx context.Context, jobID, candidateProfileID uuid.UUID, match *models.SkillMatchResult) error
	JobForCV(ctx context.Context, cvDocumentID uuid.UUID) (*models.Job, error)
}

// TextExtractor pulls plain text out of raw PDF bytes.
type TextExtractor interface {
	Extract(data []byte) (string, error)
}

// Locker guards against concurrent runs for the same document. A nil Locker
// disables the guard.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Options carries the pipeline's tunables.
type Options struct {
	Bucket        string
	MinTextLength int
	LockTTL       time.Duration
}

// Pipeline runs the full screening flow for one CV document: fetch, text
// extraction, AI profile parsing with deterministic fallback, contextual
// summarization, skill matching, persistence. Every AI stage degrades
// instead of failing the run; only infrastructure errors are terminal.
type Pipeline struct {
	store      Store
	blobs      storage.Storage
	extractor  TextExtractor
	parser     *ProfileParser
	fallback   *FallbackParser
	summarizer *Summarizer
	matcher    *SkillMatcher
	locker     Locker
	opts       Options
}

func NewPipeline(st Store, blobs storage.Storage, extractor TextExtractor, parser *ProfileParser, fallback *FallbackParser, summarizer *Summarizer, matcher *SkillMatcher, locker Locker, opts Options) *Pipeline {
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = 10
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Minute
	}
	return &Pipeline{
		store:      st,
		blobs:      blobs,
		extractor:  extractor,
		parser:     parser,
		fallback:   fallback,
		summarizer: summarizer,
		matcher:    matcher,
		locker:     locker,
		opts:       opts,
	}
}

// Process runs the pipeline for one document. A duplicate delivery that
// finds the document locked is a no-op. On failure the document is marked
// FAILED with a classified reason and the error is returned so the queue
// can apply its retry policy.
func (p *Pipeline) Process(ctx context.Context, cvDocumentID uuid.UUID) error {
	if p.locker != nil {
		key := lockKey(cvDocumentID)
		acquired, err := p.locker.Acquire(ctx, key, p.opts.LockTTL)
		if err != nil {
			slog.Warn("process lock unavailable, continuing unguarded", "cv_document_id", cvDocumentID, "error", err)
		} else if !acquired {
			slog.Info("cv document already being processed, skipping", "cv_document_id", cvDocumentID)
			return nil
		} else {
			defer func() {
				if err := p.locker.Release(context.WithoutCancel(ctx), key); err != nil {
					slog.Warn("release process lock", "cv_document_id", cvDocumentID, "error", err)
				}
			}()
		}
	}

	if err := p.run(ctx, cvDocumentID); err != nil {
		reason := ClassifyFailure(err)
		slog.Error("cv processing failed",
			"cv_document_id", cvDocumentID, "fail_reason", reason, "error", err)
		if markErr := p.store.MarkCVFailed(context.WithoutCancel(ctx), cvDocumentID, FailureMessage(err), reason); markErr != nil {
			slog.Error("mark cv document failed", "cv_document_id", cvDocumentID, "error", markErr)
		}
		return err
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, id uuid.UUID) error {
	doc, err := p.store.GetCVDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("load cv document: %w", err)
	}

	text, err := p.extractText(ctx, doc)
	if err != nil {
		return err
	}
	if err := p.store.SetExtractedText(ctx, id, text); err != nil {
		return fmt.Errorf("persist extracted text: %w", err)
	}
	slog.Info("text extracted", "cv_document_id", id, "chars", len(text))

	profile, prov, degraded := p.buildProfile(ctx, id, text)
	if err := p.persistOutput(ctx, id, models.OutputTypeProfile, prov, profile); err != nil {
		return err
	}
	profileID, err := p.store.UpsertCandidateProfile(ctx, id, profile)
	if err != nil {
		return fmt.Errorf("persist candidate profile: %w", err)
	}

	job, err := p.store.JobForCV(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrJobContextMissing, id)
		}
		return fmt.Errorf("load job context: %w", err)
	}
	jobCtx := NewJobContext(job)

	summary, sumProv := p.summarizer.Summarize(ctx, profile, jobCtx, degraded)
	if err := p.persistOutput(ctx, id, models.OutputTypeSummary, sumProv, summary); err != nil {
		return err
	}

	match := p.matcher.Match(ctx, profile.Skills.Technical, jobCtx.RequiredSkills)
	if err := p.store.UpsertMatch(ctx, jobCtx.JobID, profileID, match); err != nil {
		return fmt.Errorf("persist match: %w", err)
	}

	if err := p.store.UpdateCVStatus(ctx, id, models.CVStatusAIDone); err != nil {
		return fmt.Errorf("finalize cv status: %w", err)
	}

	slog.Info("cv processing complete",
		"cv_document_id", id, "job_id", jobCtx.JobID,
		"score", match.Score, "degraded", degraded)
	return nil
}

func (p *Pipeline) extractText(ctx context.Context, doc *models.CVDocument) (string, error) {
	body, err := p.blobs.Download(ctx, p.opts.Bucket, doc.StorageKey)
	if err != nil {
		return "", fmt.Errorf("fetch cv object: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", &storage.Error{Op: "read", Key: doc.StorageKey, Err: err}
	}

	text, err := p.extractor.Extract(data)
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	text = strings.TrimSpace(text)
	if len(text) < p.opts.MinTextLength {
		return "", fmt.Errorf("%w: %d chars extracted", ErrEmptyText, len(text))
	}
	return text, nil
}

// buildProfile never fails: when the AI parser errors out the deterministic
// fallback takes over and the run continues in degraded mode.
func (p *Pipeline) buildProfile(ctx context.Context, id uuid.UUID, text string) (*models.CandidateProfile, Provenance, bool) {
	profile, prov, err := p.parser.Parse(ctx, text)
	if err == nil {
		return profile, prov, false
	}
	slog.Warn("ai profile parse failed, using fallback parser", "cv_document_id", id, "error", err)
	return p.fallback.Parse(text), FallbackProvenance, true
}

func (p *Pipeline) persistOutput(ctx context.Context, id uuid.UUID, outputType string, prov Provenance, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s output: %w", outputType, err)
	}
	if err := p.store.InsertAIOutput(ctx, id, outputType, prov.Provider, prov.Model, data); err != nil {
		return fmt.Errorf("persist %s output: %w", outputType, err)
	}
	return nil
}

func lockKey(id uuid.UUID) string {
	return "screening:cv:" + id.String()
}
