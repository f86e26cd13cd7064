package service

import (
	"context"
	"errors"

	"growth-assistant-go/internal/model"
	"growth-assistant-go/internal/repository"
	"growth-assistant-go/pkg/crm"
	"growth-assistant-go/pkg/notify"
)

type memoryConversationRepo struct {
	sessions map[string]model.ConversationSession
	saveErr  error
}

func newMemoryConversationRepo() *memoryConversationRepo {
	return &memoryConversationRepo{sessions: map[string]model.ConversationSession{}}
}

func (r *memoryConversationRepo) GetSession(_ context.Context, id string) (*model.ConversationSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	s.ChatHistory = append([]model.ChatTurn(nil), s.ChatHistory...)
	return &s, nil
}

func (r *memoryConversationRepo) SaveSession(_ context.Context, s *model.ConversationSession) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sessions[s.ID] = *s
	return nil
}

func (r *memoryConversationRepo) DeleteSession(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

type fakeCRM struct {
	products     []string
	materials    []model.LearningMaterial
	vouchers     []model.Voucher
	err          error
	calls        int
	gotProducts  []string
	chatLogs     []crm.ChatLogEntry
	chatLogError error
}

func (f *fakeCRM) ListAssignedProducts(context.Context, string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCRM) ListLearningMaterials(_ context.Context, products []string) ([]model.LearningMaterial, error) {
	f.calls++
	f.gotProducts = products
	if f.err != nil {
		return nil, f.err
	}
	return f.materials, nil
}

func (f *fakeCRM) ListVouchers(context.Context, string) ([]model.Voucher, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vouchers, nil
}

func (f *fakeCRM) AppendChatLog(_ context.Context, e crm.ChatLogEntry) error {
	f.chatLogs = append(f.chatLogs, e)
	return f.chatLogError
}

type memoryCatalogCache struct {
	entries map[string]*model.Catalog
	sets    int
}

func (c *memoryCatalogCache) Get(_ context.Context, id string) (*model.Catalog, bool, error) {
	cat, ok := c.entries[id]
	return cat, ok, nil
}

func (c *memoryCatalogCache) Set(_ context.Context, id string, cat *model.Catalog) error {
	if c.entries == nil {
		c.entries = map[string]*model.Catalog{}
	}
	c.entries[id] = cat
	c.sets++
	return nil
}

func (c *memoryCatalogCache) Invalidate(_ context.Context, id string) error {
	delete(c.entries, id)
	return nil
}

type staticCatalogs struct {
	catalog *model.Catalog
}

func (s staticCatalogs) GetCatalog(context.Context) *model.Catalog { return s.catalog }

func (s staticCatalogs) Invalidate(context.Context) {}

// countingCatalogs 记录 Invalidate 的调用次数。
type countingCatalogs struct {
	staticCatalogs
	invalidations int
}

func (c *countingCatalogs) Invalidate(context.Context) { c.invalidations++ }

type memoryChatLogs struct {
	entries []model.ChatLog
	err     error
}

func (m *memoryChatLogs) Create(_ context.Context, e *model.ChatLog) error {
	m.entries = append(m.entries, *e)
	return m.err
}

type memoryVoucherRequests struct {
	entries []model.VoucherRequest
}

func (m *memoryVoucherRequests) Create(_ context.Context, r *model.VoucherRequest) error {
	m.entries = append(m.entries, *r)
	return nil
}

func (m *memoryVoucherRequests) FindByEmployee(_ context.Context, id string) ([]model.VoucherRequest, error) {
	var out []model.VoucherRequest
	for _, r := range m.entries {
		if r.EmployeeID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type fixedNotifier struct {
	status notify.Status
	got    []notify.VoucherNotification
}

func (f *fixedNotifier) SendVoucherNotification(_ context.Context, n notify.VoucherNotification) notify.Status {
	f.got = append(f.got, n)
	return f.status
}

var errBackend = errors.New("backend down")
