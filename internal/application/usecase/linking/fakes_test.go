package linking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/domain/entity"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
)

// fakeCodeRepo is an in-memory LinkingCodeRepository honoring the same
// contract as the database-backed one: unique codes, conditional delete.
type fakeCodeRepo struct {
	mu        sync.Mutex
	codes     map[string]*entity.LinkingCode
	insertErr error
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[string]*entity.LinkingCode)}
}

func (f *fakeCodeRepo) Insert(_ context.Context, code *entity.LinkingCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return f.insertErr
	}
	if _, exists := f.codes[code.Code]; exists {
		return domainerror.ErrLinkingCodeCollision
	}
	c := *code
	f.codes[code.Code] = &c
	return nil
}

func (f *fakeCodeRepo) DeleteIfValid(_ context.Context, code string, now time.Time) (*uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, exists := f.codes[code]
	if !exists || stored.Expired(now) {
		return nil, nil
	}
	delete(f.codes, code)
	ownerID := stored.UserID
	return &ownerID, nil
}

func (f *fakeCodeRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed int64
	for code, stored := range f.codes {
		if stored.Expired(now) {
			delete(f.codes, code)
			removed++
		}
	}
	return removed, nil
}

// fakeLinkRepo is an in-memory ChannelLinkRepository.
type fakeLinkRepo struct {
	mu        sync.Mutex
	links     map[string]*entity.ChannelLink
	upsertErr error
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*entity.ChannelLink)}
}

func (f *fakeLinkRepo) Upsert(_ context.Context, link *entity.ChannelLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return f.upsertErr
	}
	l := *link
	f.links[link.ChannelID] = &l
	return nil
}

func (f *fakeLinkRepo) FindByChannelID(_ context.Context, channelID string) (*entity.ChannelLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	link, exists := f.links[channelID]
	if !exists {
		return nil, nil
	}
	l := *link
	return &l, nil
}

func (f *fakeLinkRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.ChannelLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, link := range f.links {
		if link.UserID == userID {
			l := *link
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeLinkRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for channelID, link := range f.links {
		if link.UserID == userID {
			delete(f.links, channelID)
		}
	}
	return nil
}

var errStoreDown = errors.New("store unavailable")
