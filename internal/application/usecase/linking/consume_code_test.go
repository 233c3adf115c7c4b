package linking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/controle-financeiro/backend/internal/domain/entity"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
)

func issueCode(t *testing.T, repo *fakeCodeRepo, userID uuid.UUID, code string) {
	t.Helper()
	if err := repo.Insert(context.Background(), entity.NewLinkingCode(code, userID)); err != nil {
		t.Fatalf("failed to seed code: %v", err)
	}
}

func TestConsumeLinkingCode(t *testing.T) {
	codeRepo := newFakeCodeRepo()
	linkRepo := newFakeLinkRepo()
	uc := NewConsumeLinkingCodeUseCase(codeRepo, linkRepo)

	userID := uuid.New()
	issueCode(t, codeRepo, userID, "482913")

	out, err := uc.Execute(context.Background(), ConsumeLinkingCodeInput{
		Code:      "482913",
		ChannelID: "chat-1",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.UserID != userID {
		t.Errorf("owner = %v, want %v", out.UserID, userID)
	}

	link, err := linkRepo.FindByChannelID(context.Background(), "chat-1")
	if err != nil || link == nil {
		t.Fatalf("link not persisted: link=%v err=%v", link, err)
	}
	if link.UserID != userID {
		t.Errorf("link owner = %v, want %v", link.UserID, userID)
	}
}

func TestConsumeLinkingCodeIsSingleUse(t *testing.T) {
	codeRepo := newFakeCodeRepo()
	linkRepo := newFakeLinkRepo()
	uc := NewConsumeLinkingCodeUseCase(codeRepo, linkRepo)

	issueCode(t, codeRepo, uuid.New(), "123456")

	if _, err := uc.Execute(context.Background(), ConsumeLinkingCodeInput{Code: "123456", ChannelID: "chat-1"}); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}

	// Second attempt, same or different channel: the code is gone.
	for _, channelID := range []string{"chat-1", "chat-2"} {
		_, err := uc.Execute(context.Background(), ConsumeLinkingCodeInput{Code: "123456", ChannelID: channelID})
		if !errors.Is(err, domainerror.ErrLinkingCodeNotFound) {
			t.Errorf("reuse on %s: error = %v, want ErrLinkingCodeNotFound", channelID, err)
		}
	}
}

func TestConsumeLinkingCodeUnknown(t *testing.T) {
	uc := NewConsumeLinkingCodeUseCase(newFakeCodeRepo(), newFakeLinkRepo())

	_, err := uc.Execute(context.Background(), ConsumeLinkingCodeInput{Code: "999999", ChannelID: "chat-1"})
	if !errors.Is(err, domainerror.ErrLinkingCodeNotFound) {
		t.Fatalf("Execute() error = %v, want ErrLinkingCodeNotFound", err)
	}
}

func TestConsumeLinkingCodeExpired(t *testing.T) {
	codeRepo := newFakeCodeRepo()
	linkRepo := newFakeLinkRepo()
	uc := NewConsumeLinkingCodeUseCase(codeRepo, linkRepo)

	// Expired row still physically present in the store.
	code := entity.NewLinkingCode("654321", uuid.New())
	code.IssuedAt = time.Now().UTC().Add(-11 * time.Minute)
	code.ExpiresAt = time.Now().UTC().Add(-1 * time.Minute)
	codeRepo.codes[code.Code] = code

	_, err := uc.Execute(context.Background(), ConsumeLinkingCodeInput{Code: "654321", ChannelID: "chat-1"})
	if !errors.Is(err, domainerror.ErrLinkingCodeNotFound) {
		t.Fatalf("Execute() error = %v, want ErrLinkingCodeNotFound for expired code", err)
	}
	if link, _ := linkRepo.FindByChannelID(context.Background(), "chat-1"); link != nil {
		t.Error("expired code must not create a link")
	}
}

func TestConsumeLinkingCodeRelinkOverwritesOwner(t *testing.T) {
	codeRepo := newFakeCodeRepo()
	linkRepo := newFakeLinkRepo()
	uc := NewConsumeLinkingCodeUseCase(codeRepo, linkRepo)

	user1 := uuid.New()
	user2 := uuid.New()

	issueCode(t, codeRepo, user1, "111111")
	issueCode(t, codeRepo, user2, "222222")

	if _, err := uc.Execute(context.Background(), ConsumeLinkingCodeInput{Code: "111111", ChannelID: "chat-x"}); err != nil {
		t.Fatalf("first link error = %v", err)
	}
	if _, err := uc.Execute(context.Background(), ConsumeLinkingCodeInput{Code: "222222", ChannelID: "chat-x"}); err != nil {
		t.Fatalf("relink error = %v", err)
	}

	// Last write wins: the channel now belongs to user2.
	link, _ := linkRepo.FindByChannelID(context.Background(), "chat-x")
	if link == nil || link.UserID != user2 {
		t.Fatalf("link = %+v, want owner %v", link, user2)
	}
}

func TestConsumeLinkingCodeStoreFailure(t *testing.T) {
	codeRepo := newFakeCodeRepo()
	linkRepo := newFakeLinkRepo()
	linkRepo.upsertErr = errStoreDown
	uc := NewConsumeLinkingCodeUseCase(codeRepo, linkRepo)

	issueCode(t, codeRepo, uuid.New(), "333333")

	_, err := uc.Execute(context.Background(), ConsumeLinkingCodeInput{Code: "333333", ChannelID: "chat-1"})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("Execute() error = %v, want wrapped store error", err)
	}
}

func TestGetLinkStatus(t *testing.T) {
	linkRepo := newFakeLinkRepo()
	uc := NewGetLinkStatusUseCase(linkRepo)
	userID := uuid.New()

	out, err := uc.Execute(context.Background(), GetLinkStatusInput{UserID: userID})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.Linked || out.LinkedAt != nil {
		t.Errorf("status = %+v, want unlinked", out)
	}

	link := entity.NewChannelLink("chat-1", userID)
	if err := linkRepo.Upsert(context.Background(), link); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	out, err = uc.Execute(context.Background(), GetLinkStatusInput{UserID: userID})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !out.Linked || out.LinkedAt == nil {
		t.Fatalf("status = %+v, want linked", out)
	}
	if !out.LinkedAt.Equal(link.LinkedAt) {
		t.Errorf("linkedAt = %v, want %v", out.LinkedAt, link.LinkedAt)
	}
}

func TestUnlinkChannel(t *testing.T) {
	linkRepo := newFakeLinkRepo()
	uc := NewUnlinkChannelUseCase(linkRepo)
	userID := uuid.New()

	if err := linkRepo.Upsert(context.Background(), entity.NewChannelLink("chat-1", userID)); err != nil {
		t.Fatalf("seed link: %v", err)
	}
	if err := linkRepo.Upsert(context.Background(), entity.NewChannelLink("chat-2", userID)); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	if err := uc.Execute(context.Background(), UnlinkChannelInput{UserID: userID}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, channelID := range []string{"chat-1", "chat-2"} {
		if link, _ := linkRepo.FindByChannelID(context.Background(), channelID); link != nil {
			t.Errorf("link for %s still present after unlink", channelID)
		}
	}

	// Unlinking again is a no-op, not an error.
	if err := uc.Execute(context.Background(), UnlinkChannelInput{UserID: userID}); err != nil {
		t.Errorf("second Execute() error = %v", err)
	}
}
