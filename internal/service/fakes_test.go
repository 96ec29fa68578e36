package service

import (
	"context"
	"sort"
	"sync"

	"disclosure-engine-be/internal/dto"
	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/model"
	"disclosure-engine-be/internal/repository/contract"
	"disclosure-engine-be/internal/repository/specification"
	"disclosure-engine-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// fakeStore backs every fake repository; one instance plays the database.
type fakeStore struct {
	mu            sync.Mutex
	products      map[uuid.UUID]*entity.Product
	transcript    []*entity.TranscriptEntry
	reports       map[string]*entity.DisclosureReport
	notifications []model.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]*entity.Product),
		reports:  make(map[string]*entity.DisclosureReport),
	}
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: s}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) ProductRepository() contract.ProductRepository {
	return &fakeProductRepo{u.store}
}

func (u *fakeUnitOfWork) TranscriptRepository() contract.TranscriptRepository {
	return &fakeTranscriptRepo{u.store}
}

func (u *fakeUnitOfWork) DisclosureReportRepository() contract.DisclosureReportRepository {
	return &fakeReportRepo{u.store}
}

func (u *fakeUnitOfWork) NotificationRepository() contract.NotificationRepository {
	return &fakeNotificationRepo{u.store}
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.products[p.Id] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.Create(ctx, p)
}

func (r *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if matchProduct(p, specs) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func matchProduct(p *entity.Product, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if p.Id != sp.ID {
				return false
			}
		case specification.ByOwnerID:
			if p.OwnerId != sp.OwnerID {
				return false
			}
		}
	}
	return true
}

type fakeTranscriptRepo struct{ s *fakeStore }

func (r *fakeTranscriptRepo) Append(ctx context.Context, entries ...*entity.TranscriptEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range entries {
		cp := *e
		replaced := false
		for i, existing := range r.s.transcript {
			if existing.SessionId == e.SessionId && existing.Sequence == e.Sequence {
				r.s.transcript[i] = &cp
				replaced = true
				break
			}
		}
		if !replaced {
			r.s.transcript = append(r.s.transcript, &cp)
		}
	}
	return nil
}

func (r *fakeTranscriptRepo) Replace(ctx context.Context, sessionID string, entries ...*entity.TranscriptEntry) error {
	if err := r.DeleteBySessionID(ctx, sessionID); err != nil {
		return err
	}
	return r.Append(ctx, entries...)
}

func (r *fakeTranscriptRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TranscriptEntry
	for _, e := range r.s.transcript {
		if matchTranscript(e, specs) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *fakeTranscriptRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeTranscriptRepo) DeleteBySessionID(ctx context.Context, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.transcript[:0]
	for _, e := range r.s.transcript {
		if e.SessionId != sessionID {
			kept = append(kept, e)
		}
	}
	r.s.transcript = kept
	return nil
}

func matchTranscript(e *entity.TranscriptEntry, specs []specification.Specification) bool {
	for _, spec := range specs {
		if sp, ok := spec.(specification.BySessionID); ok && e.SessionId != sp.SessionID {
			return false
		}
	}
	return true
}

type fakeReportRepo struct{ s *fakeStore }

func (r *fakeReportRepo) Create(ctx context.Context, report *entity.DisclosureReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *report
	r.s.reports[report.SessionId] = &cp
	return nil
}

func (r *fakeReportRepo) Update(ctx context.Context, report *entity.DisclosureReport) error {
	return r.Create(ctx, report)
}

func (r *fakeReportRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DisclosureReport, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeReportRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DisclosureReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DisclosureReport
	for _, rep := range r.s.reports {
		if matchReport(rep, specs) {
			cp := *rep
			out = append(out, &cp)
		}
	}
	return out, nil
}

func matchReport(rep *entity.DisclosureReport, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.BySessionID:
			if rep.SessionId != sp.SessionID {
				return false
			}
		case specification.ByRequesterID:
			if rep.RequesterId != sp.RequesterID {
				return false
			}
		case specification.ByStatus:
			if rep.Status != sp.Status {
				return false
			}
		}
	}
	return true
}

type fakeNotificationRepo struct{ s *fakeStore }

func (r *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var mine []model.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			mine = append(mine, n)
		}
	}
	total := int64(len(mine))
	if offset >= len(mine) {
		return []model.Notification{}, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, item := range r.s.notifications {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if r.s.notifications[i].ID == notificationID && r.s.notifications[i].UserID == userID {
			r.s.notifications[i].IsRead = true
			return nil
		}
	}
	return contract.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if r.s.notifications[i].UserID == userID {
			r.s.notifications[i].IsRead = true
		}
	}
	return nil
}

// recordingPublisher captures domain events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) record(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name)
}

func (p *recordingPublisher) PublishProductAccepted(ctx context.Context, productId, ownerId uuid.UUID, productName, category string) {
	p.record("PRODUCT_ACCEPTED")
}

func (p *recordingPublisher) PublishQuestionnaireCompleted(ctx context.Context, sessionId string, productId, requesterId uuid.UUID, answers int) {
	p.record("QUESTIONNAIRE_COMPLETED")
}

func (p *recordingPublisher) PublishReportReady(ctx context.Context, sessionId string, reportId, requesterId uuid.UUID, productName string) {
	p.record("DISCLOSURE_REPORT_READY")
}

func (p *recordingPublisher) PublishReportFailed(ctx context.Context, sessionId string, reportId, requesterId uuid.UUID, productName, reason string, attempts int) {
	p.record("DISCLOSURE_REPORT_FAILED")
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type fakeJobs struct {
	jobs []dto.ReportJobMessage
	err  error
}

func (f *fakeJobs) PublishReportJob(ctx context.Context, job dto.ReportJobMessage) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type pushed struct {
	userID      uuid.UUID
	messageType string
	data        interface{}
}

type fakePusher struct {
	mu       sync.Mutex
	messages []pushed
}

func (f *fakePusher) Send(userID uuid.UUID, messageType string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, pushed{userID, messageType, data})
}
