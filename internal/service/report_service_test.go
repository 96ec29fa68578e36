package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/internal/repository/specification"
	"disclosure-engine-be/pkg/disclosure"
	"disclosure-engine-be/pkg/disclosure/flow"
	"disclosure-engine-be/pkg/disclosure/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completion(productId, requesterId uuid.UUID, answers ...string) flow.Completion {
	entries := make([]state.TranscriptEntry, len(answers))
	for i, a := range answers {
		entries[i] = state.TranscriptEntry{
			Key:        state.Key{Section: "Identity and Claims", DataPoint: "dp"},
			Question:   "q",
			Answer:     a,
			AnsweredAt: time.Now(),
		}
	}
	return flow.Completion{
		SessionID:   "sess-1",
		RequesterID: requesterId.String(),
		Product:     state.Product{ID: productId.String(), Name: "Organic Lip Balm"},
		Sector:      "Cosmetics and Personal Care",
		Transcript:  entries,
		CompletedAt: time.Now(),
	}
}

func TestReportOnCompleteCreatesPendingJob(t *testing.T) {
	store := newFakeStore()
	jobs := &fakeJobs{}
	pub := &recordingPublisher{}
	svc := NewReportService(store, jobs, pub, logger.NewNopLogger())
	productId, requester := uuid.New(), uuid.New()

	// one entry was already mirrored by the step
	require.NoError(t, (&fakeTranscriptRepo{store}).Append(context.Background(),
		transcriptRows("sess-1", productId, requester, []state.TranscriptEntry{{Answer: "a"}}, 0)...))

	svc.OnComplete(context.Background(), completion(productId, requester, "a", "b", "c"))

	report := store.reports["sess-1"]
	require.NotNil(t, report)
	assert.Equal(t, entity.ReportStatusPending, report.Status)
	assert.Equal(t, requester, report.RequesterId)
	assert.Equal(t, "Cosmetics and Personal Care", report.Sector)

	assert.Len(t, store.transcript, 3)
	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, "sess-1", jobs.jobs[0].SessionId)
	assert.Equal(t, []string{"QUESTIONNAIRE_COMPLETED"}, pub.names())
}

func TestReportOnCompleteReplacesStaleMirror(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, &fakeJobs{}, &recordingPublisher{}, logger.NewNopLogger())
	productId, requester := uuid.New(), uuid.New()

	// rows from an earlier, cleared run of the same product and requester
	stale := transcriptRows("sess-1", productId, requester, []state.TranscriptEntry{
		{Answer: "old"}, {Answer: "x"}, {Answer: "x"}, {Answer: "x"}, {Answer: "x"}, {Answer: "stale"},
	}, 0)
	require.NoError(t, (&fakeTranscriptRepo{store}).Append(context.Background(), stale...))

	svc.OnComplete(context.Background(), completion(productId, requester, "a", "b"))

	rows, err := (&fakeTranscriptRepo{store}).FindAll(context.Background(), specification.BySessionID{SessionID: "sess-1"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Sequence)
	assert.Equal(t, "a", rows[0].Answer)
	assert.Equal(t, "b", rows[1].Answer)
}

func TestTranscriptAppendOverwritesSameSequence(t *testing.T) {
	store := newFakeStore()
	repo := &fakeTranscriptRepo{store}
	productId, requester := uuid.New(), uuid.New()

	require.NoError(t, repo.Append(context.Background(),
		transcriptRows("sess-1", productId, requester, []state.TranscriptEntry{{Answer: "old"}}, 0)...))
	require.NoError(t, repo.Append(context.Background(),
		transcriptRows("sess-1", productId, requester, []state.TranscriptEntry{{Answer: "new"}}, 0)...))

	require.Len(t, store.transcript, 1)
	assert.Equal(t, "new", store.transcript[0].Answer)
}

func TestReportOnCompleteResetsExistingRow(t *testing.T) {
	store := newFakeStore()
	productId, requester := uuid.New(), uuid.New()
	store.reports["sess-1"] = &entity.DisclosureReport{
		Id:          uuid.New(),
		SessionId:   "sess-1",
		ProductId:   productId,
		RequesterId: requester,
		Status:      entity.ReportStatusReady,
		Attempts:    1,
		Summary:     &entity.ReportDocument{Title: "old", Content: "old"},
	}
	svc := NewReportService(store, &fakeJobs{}, &recordingPublisher{}, logger.NewNopLogger())

	svc.OnComplete(context.Background(), completion(productId, requester, "a"))

	report := store.reports["sess-1"]
	assert.Equal(t, entity.ReportStatusPending, report.Status)
	assert.Nil(t, report.Summary)
	assert.Equal(t, 1, report.Attempts)
}

func TestReportEnqueueFailureMarksFailed(t *testing.T) {
	store := newFakeStore()
	jobs := &fakeJobs{err: errors.New("topic closed")}
	svc := NewReportService(store, jobs, &recordingPublisher{}, logger.NewNopLogger())

	svc.OnComplete(context.Background(), completion(uuid.New(), uuid.New(), "a"))

	report := store.reports["sess-1"]
	require.NotNil(t, report)
	assert.Equal(t, entity.ReportStatusFailed, report.Status)
	assert.Contains(t, report.LastError, "topic closed")
}

func TestReportGetScopedToRequester(t *testing.T) {
	store := newFakeStore()
	requester := uuid.New()
	store.reports["sess-1"] = &entity.DisclosureReport{
		Id:          uuid.New(),
		SessionId:   "sess-1",
		RequesterId: requester,
		Status:      entity.ReportStatusReady,
		Summary:     &entity.ReportDocument{Title: "Summary", Content: "Body"},
	}
	svc := NewReportService(store, &fakeJobs{}, &recordingPublisher{}, logger.NewNopLogger())

	res, err := svc.GetReport(context.Background(), requester, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "ready", res.Status)
	require.NotNil(t, res.Summary)
	assert.Equal(t, "Body", res.Summary.Content)
	assert.Nil(t, res.Findings)

	_, err = svc.GetReport(context.Background(), uuid.New(), "sess-1")
	assert.ErrorIs(t, err, disclosure.ErrReportNotFound)
}

func TestReportRetry(t *testing.T) {
	requester := uuid.New()
	seed := func(status string) (*fakeStore, *fakeJobs, IReportService) {
		store := newFakeStore()
		store.reports["sess-1"] = &entity.DisclosureReport{
			Id:          uuid.New(),
			SessionId:   "sess-1",
			RequesterId: requester,
			Status:      status,
			Attempts:    2,
			LastError:   "synthesis failed",
		}
		jobs := &fakeJobs{}
		return store, jobs, NewReportService(store, jobs, &recordingPublisher{}, logger.NewNopLogger())
	}

	t.Run("failed is re-enqueued", func(t *testing.T) {
		store, jobs, svc := seed(entity.ReportStatusFailed)

		res, err := svc.Retry(context.Background(), requester, "sess-1")
		require.NoError(t, err)

		assert.Equal(t, "pending", res.Status)
		assert.Empty(t, res.LastError)
		assert.Equal(t, 2, res.Attempts)
		assert.Len(t, jobs.jobs, 1)
		persisted, _ := (&fakeReportRepo{store}).FindOne(context.Background(), specification.BySessionID{SessionID: "sess-1"})
		assert.Equal(t, entity.ReportStatusPending, persisted.Status)
	})

	t.Run("pending is returned as is", func(t *testing.T) {
		_, jobs, svc := seed(entity.ReportStatusPending)

		res, err := svc.Retry(context.Background(), requester, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, "pending", res.Status)
		assert.Empty(t, jobs.jobs)
	})

	t.Run("ready is not retryable", func(t *testing.T) {
		_, _, svc := seed(entity.ReportStatusReady)

		_, err := svc.Retry(context.Background(), requester, "sess-1")
		assert.ErrorIs(t, err, disclosure.ErrReportNotRetryable)
	})
}
