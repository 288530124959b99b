package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/screening/internal/extract"
	"github.com/talentsift/screening/internal/models"
	"github.com/talentsift/screening/internal/storage"
	"github.com/talentsift/screening/internal/store"
)

type storedOutput struct {
	outputType string
	provider   string
	model      string
	payload    []byte
}

type fakeStore struct {
	doc    *models.CVDocument
	getErr error
	job    *models.Job
	jobErr error

	setTextErr error

	getCalls      int
	extractedText string
	status        string
	failMessage   string
	failReason    models.FailReason
	failCalls     int

	outputs []storedOutput

	profile   *models.CandidateProfile
	profileID uuid.UUID

	matchJobID     uuid.UUID
	matchProfileID uuid.UUID
	match          *models.SkillMatchResult
}

func (f *fakeStore) GetCVDocument(_ context.Context, id uuid.UUID) (*models.CVDocument, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.doc, nil
}

func (f *fakeStore) SetExtractedText(_ context.Context, _ uuid.UUID, text string) error {
	if f.setTextErr != nil {
		return f.setTextErr
	}
	f.extractedText = text
	f.status = models.CVStatusTextExtracted
	return nil
}

func (f *fakeStore) UpdateCVStatus(_ context.Context, _ uuid.UUID, status string) error {
	f.status = status
	return nil
}

func (f *fakeStore) MarkCVFailed(_ context.Context, _ uuid.UUID, message string, reason models.FailReason) error {
	f.failCalls++
	f.status = models.CVStatusFailed
	f.failMessage = message
	f.failReason = reason
	return nil
}

func (f *fakeStore) UpsertCandidateProfile(_ context.Context, _ uuid.UUID, profile *models.CandidateProfile) (uuid.UUID, error) {
	f.profile = profile
	return f.profileID, nil
}

func (f *fakeStore) InsertAIOutput(_ context.Context, _ uuid.UUID, outputType, provider, model string, payload []byte) error {
	f.outputs = append(f.outputs, storedOutput{outputType: outputType, provider: provider, model: model, payload: payload})
	return nil
}

func (f *fakeStore) UpsertMatch(_ context.Context, jobID, candidateProfileID uuid.UUID, match *models.SkillMatchResult) error {
	f.matchJobID = jobID
	f.matchProfileID = candidateProfileID
	f.match = match
	return nil
}

func (f *fakeStore) JobForCV(_ context.Context, _ uuid.UUID) (*models.Job, error) {
	if f.jobErr != nil {
		return nil, f.jobErr
	}
	return f.job, nil
}

type fakeBlob struct {
	data      []byte
	err       error
	downloads int
}

func (f *fakeBlob) Download(_ context.Context, _, _ string) (io.ReadCloser, error) {
	f.downloads++
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func (f *fakeBlob) Upload(_ context.Context, _, _ string, _ io.Reader, _ string) error {
	return nil
}

func (f *fakeBlob) SignedURL(_ context.Context, _, _ string, _ time.Duration) (string, error) {
	return "", nil
}

func (f *fakeBlob) Delete(_ context.Context, _, _ string) error { return nil }

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeLocker struct {
	available bool
	err       error
	acquired  []string
	released  []string
}

func (f *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.acquired = append(f.acquired, key)
	return f.available, nil
}

func (f *fakeLocker) Release(_ context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

type pipelineFixture struct {
	store    *fakeStore
	blob     *fakeBlob
	ext      *fakeExtractor
	locker   *fakeLocker
	provider *fakeProvider
	pipeline *Pipeline
	docID    uuid.UUID
	jobID    uuid.UUID
}

func newPipelineFixture(provider *fakeProvider) *pipelineFixture {
	docID := uuid.New()
	jobID := uuid.New()

	st := &fakeStore{
		doc: &models.CVDocument{
			ID:         docID,
			StorageKey: "cvs/" + docID.String() + ".pdf",
			Status:     models.CVStatusUploaded,
		},
		job: &models.Job{
			ID:           jobID,
			Title:        "Backend Engineer",
			Description:  "Build Go services",
			Requirements: json.RawMessage(`{"requiredSkills": ["react", "docker"]}`),
		},
		profileID: uuid.New(),
	}
	blob := &fakeBlob{data: []byte("%PDF-fake")}
	ext := &fakeExtractor{text: "Jane Doe\n5 years experience in React, Node.js and PostgreSQL."}
	locker := &fakeLocker{available: true}

	p := NewPipeline(st, blob, ext,
		NewProfileParser(provider, 1024),
		NewFallbackParser(),
		NewSummarizer(provider, 1024),
		NewSkillMatcher(provider, 1024),
		locker,
		Options{Bucket: "cv-documents", MinTextLength: 10, LockTTL: time.Minute},
	)

	return &pipelineFixture{
		store: st, blob: blob, ext: ext, locker: locker,
		provider: provider, pipeline: p, docID: docID, jobID: jobID,
	}
}

func TestPipelineHappyPath(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		validProfileJSON,
		`{"summary": "Good fit.", "highlights": ["Go"], "relevanceScore": 80}`,
		`{"exactMatches": ["react"], "missingSkills": ["docker"], "score": 55, "explanation": "Half covered."}`,
	}}
	fx := newPipelineFixture(provider)

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.NoError(t, err)

	assert.Equal(t, models.CVStatusAIDone, fx.store.status)
	assert.Equal(t, fx.ext.text, fx.store.extractedText)
	assert.Equal(t, 0, fx.store.failCalls)

	require.Len(t, fx.store.outputs, 2)
	assert.Equal(t, models.OutputTypeProfile, fx.store.outputs[0].outputType)
	assert.Equal(t, "gemini", fx.store.outputs[0].provider)
	assert.Equal(t, "test-model", fx.store.outputs[0].model)
	assert.Equal(t, models.OutputTypeSummary, fx.store.outputs[1].outputType)
	assert.Equal(t, "gemini", fx.store.outputs[1].provider)

	require.NotNil(t, fx.store.match)
	assert.Equal(t, fx.jobID, fx.store.matchJobID)
	assert.Equal(t, fx.store.profileID, fx.store.matchProfileID)
	assert.Equal(t, 55, fx.store.match.Score)

	require.Len(t, fx.locker.acquired, 1)
	assert.Equal(t, "screening:cv:"+fx.docID.String(), fx.locker.acquired[0])
	assert.Equal(t, fx.locker.acquired, fx.locker.released)
}

func TestPipelineDegradesWhenModelUnavailable(t *testing.T) {
	provider := &fakeProvider{err: errors.New("backend down")}
	fx := newPipelineFixture(provider)

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.NoError(t, err)

	// two parse attempts plus one match attempt; the degraded summary
	// makes no model call
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, models.CVStatusAIDone, fx.store.status)

	require.Len(t, fx.store.outputs, 2)
	assert.Equal(t, models.ProviderFallback, fx.store.outputs[0].provider)
	assert.Equal(t, models.ProviderFallback, fx.store.outputs[1].provider)

	require.NotNil(t, fx.store.profile)
	assert.Equal(t, []string{"react", "node.js", "postgresql"}, fx.store.profile.Skills.Technical)

	var summary models.ContextualSummary
	require.NoError(t, json.Unmarshal(fx.store.outputs[1].payload, &summary))
	assert.Equal(t, 30, summary.RelevanceScore)

	require.NotNil(t, fx.store.match)
	assert.Equal(t, 50, fx.store.match.Score)
	assert.Equal(t, []string{"react"}, fx.store.match.MatchedSkills)
	assert.Equal(t, []string{"docker"}, fx.store.match.MissingSkills)
}

func TestPipelineEmptyTextFailsWithoutModelCalls(t *testing.T) {
	provider := &fakeProvider{}
	fx := newPipelineFixture(provider)
	fx.ext.text = "short"

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyText)

	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, models.CVStatusFailed, fx.store.status)
	assert.Equal(t, models.FailPDFTextEmpty, fx.store.failReason)
	assert.Contains(t, fx.store.failMessage, "no extractable text")
	assert.Empty(t, fx.store.extractedText)
}

func TestPipelineStorageFailure(t *testing.T) {
	provider := &fakeProvider{}
	fx := newPipelineFixture(provider)
	fx.blob.err = &storage.Error{Op: "download", Key: "k", Err: errors.New("status 404")}

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.Error(t, err)
	assert.Equal(t, models.FailStorageFetch, fx.store.failReason)
	assert.Equal(t, models.CVStatusFailed, fx.store.status)
}

func TestPipelinePDFParseFailure(t *testing.T) {
	provider := &fakeProvider{}
	fx := newPipelineFixture(provider)
	fx.ext.err = &extract.Error{Err: errors.New("bad xref table")}

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.Error(t, err)
	assert.Equal(t, models.FailPDFParse, fx.store.failReason)
}

func TestPipelineDatabaseFailure(t *testing.T) {
	provider := &fakeProvider{}
	fx := newPipelineFixture(provider)
	fx.store.setTextErr = &store.Error{Op: "set extracted text", Err: errors.New("conn refused")}

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.Error(t, err)
	assert.Equal(t, models.FailDB, fx.store.failReason)
}

func TestPipelineMissingJobContext(t *testing.T) {
	provider := &fakeProvider{responses: []string{validProfileJSON}}
	fx := newPipelineFixture(provider)
	fx.store.jobErr = store.ErrNotFound

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJobContextMissing)
	assert.Equal(t, models.FailUnknown, fx.store.failReason)
	assert.Contains(t, fx.store.failMessage, "no job application")
}

func TestPipelineDuplicateDeliveryIsNoOp(t *testing.T) {
	provider := &fakeProvider{}
	fx := newPipelineFixture(provider)
	fx.locker.available = false

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.NoError(t, err)

	assert.Equal(t, 0, fx.store.getCalls)
	assert.Equal(t, 0, fx.blob.downloads)
	assert.Equal(t, 0, fx.store.failCalls)
	assert.Empty(t, fx.locker.released)
}

func TestPipelineProceedsWhenLockUnavailable(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		validProfileJSON,
		`{"summary": "Good fit.", "highlights": [], "relevanceScore": 70}`,
		`{"exactMatches": [], "missingSkills": ["react", "docker"], "score": 10, "explanation": "x"}`,
	}}
	fx := newPipelineFixture(provider)
	fx.locker.err = errors.New("redis down")

	err := fx.pipeline.Process(context.Background(), fx.docID)
	require.NoError(t, err)
	assert.Equal(t, models.CVStatusAIDone, fx.store.status)
	assert.Empty(t, fx.locker.released)
}
