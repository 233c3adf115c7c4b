package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/controle-financeiro/backend/internal/domain/entity"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
)

type fakeLinkRepo struct {
	links map[string]*entity.ChannelLink
}

func (f *fakeLinkRepo) Upsert(_ context.Context, link *entity.ChannelLink) error {
	f.links[link.ChannelID] = link
	return nil
}

func (f *fakeLinkRepo) FindByChannelID(_ context.Context, channelID string) (*entity.ChannelLink, error) {
	return f.links[channelID], nil
}

func (f *fakeLinkRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.ChannelLink, error) {
	for _, link := range f.links {
		if link.UserID == userID {
			return link, nil
		}
	}
	return nil, nil
}

func (f *fakeLinkRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	for channelID, link := range f.links {
		if link.UserID == userID {
			delete(f.links, channelID)
		}
	}
	return nil
}

type fakeTransactionRepo struct {
	created   []*entity.Transaction
	createErr error
}

func (f *fakeTransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, tx)
	return nil
}

type fakeCategoryRepo struct {
	categories []*entity.Category
	findErr    error
}

func (f *fakeCategoryRepo) FindByUser(_ context.Context, _ uuid.UUID) ([]*entity.Category, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.categories, nil
}

func newLinkedSetup(channelID string) (*fakeLinkRepo, *fakeTransactionRepo, *fakeCategoryRepo, uuid.UUID) {
	userID := uuid.New()
	linkRepo := &fakeLinkRepo{links: map[string]*entity.ChannelLink{
		channelID: entity.NewChannelLink(channelID, userID),
	}}
	return linkRepo, &fakeTransactionRepo{}, &fakeCategoryRepo{}, userID
}

func TestRecordChannelTransaction(t *testing.T) {
	linkRepo, txRepo, categoryRepo, userID := newLinkedSetup("chat-1")
	uc := NewRecordChannelTransactionUseCase(linkRepo, txRepo, categoryRepo)

	out, err := uc.Execute(context.Background(), RecordChannelTransactionInput{
		ChannelID: "chat-1",
		Intent: entity.ParsedIntent{
			Direction: entity.DirectionInflow,
			Amount:    decimal.RequireFromString("100"),
			Memo:      "salário",
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(txRepo.created) != 1 {
		t.Fatalf("created %d transactions, want 1", len(txRepo.created))
	}
	tx := txRepo.created[0]
	if tx.UserID != userID {
		t.Errorf("userID = %v, want %v", tx.UserID, userID)
	}
	if tx.Type != entity.TransactionTypeIncome {
		t.Errorf("type = %q, want income", tx.Type)
	}
	if tx.Description != "salário" {
		t.Errorf("description = %q, want %q", tx.Description, "salário")
	}
	if tx.Source != entity.TransactionSourceTelegram {
		t.Errorf("source = %q, want telegram", tx.Source)
	}
	if out.Transaction != tx {
		t.Error("output transaction differs from the persisted one")
	}
}

func TestRecordChannelTransactionOutflow(t *testing.T) {
	linkRepo, txRepo, categoryRepo, _ := newLinkedSetup("chat-1")
	uc := NewRecordChannelTransactionUseCase(linkRepo, txRepo, categoryRepo)

	_, err := uc.Execute(context.Background(), RecordChannelTransactionInput{
		ChannelID: "chat-1",
		Intent: entity.ParsedIntent{
			Direction: entity.DirectionOutflow,
			Amount:    decimal.RequireFromString("30"),
			Memo:      "lanche",
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if txRepo.created[0].Type != entity.TransactionTypeExpense {
		t.Errorf("type = %q, want expense", txRepo.created[0].Type)
	}
}

func TestRecordChannelTransactionNotLinked(t *testing.T) {
	uc := NewRecordChannelTransactionUseCase(
		&fakeLinkRepo{links: map[string]*entity.ChannelLink{}},
		&fakeTransactionRepo{},
		&fakeCategoryRepo{},
	)

	_, err := uc.Execute(context.Background(), RecordChannelTransactionInput{
		ChannelID: "chat-unknown",
		Intent: entity.ParsedIntent{
			Direction: entity.DirectionInflow,
			Amount:    decimal.RequireFromString("100"),
		},
	})
	if !errors.Is(err, domainerror.ErrChannelNotLinked) {
		t.Fatalf("Execute() error = %v, want ErrChannelNotLinked", err)
	}
}

func TestRecordChannelTransactionNonPositiveAmount(t *testing.T) {
	linkRepo, txRepo, categoryRepo, _ := newLinkedSetup("chat-1")
	uc := NewRecordChannelTransactionUseCase(linkRepo, txRepo, categoryRepo)

	_, err := uc.Execute(context.Background(), RecordChannelTransactionInput{
		ChannelID: "chat-1",
		Intent: entity.ParsedIntent{
			Direction: entity.DirectionInflow,
			Amount:    decimal.Zero,
		},
	})
	if !errors.Is(err, domainerror.ErrInvalidTransactionAmount) {
		t.Fatalf("Execute() error = %v, want ErrInvalidTransactionAmount", err)
	}
	if len(txRepo.created) != 0 {
		t.Error("non-positive amount must not be recorded")
	}
}

func TestRecordChannelTransactionPersistFailurePropagates(t *testing.T) {
	linkRepo, txRepo, categoryRepo, _ := newLinkedSetup("chat-1")
	txRepo.createErr = errors.New("insert failed")
	uc := NewRecordChannelTransactionUseCase(linkRepo, txRepo, categoryRepo)

	_, err := uc.Execute(context.Background(), RecordChannelTransactionInput{
		ChannelID: "chat-1",
		Intent: entity.ParsedIntent{
			Direction: entity.DirectionOutflow,
			Amount:    decimal.RequireFromString("10"),
		},
	})
	if err == nil {
		t.Fatal("Execute() = nil error, want persistence failure to propagate")
	}

	var txErr *domainerror.TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("error = %T, want *TransactionError", err)
	}
	if txErr.Code != domainerror.ErrCodeTransactionNotRecorded {
		t.Errorf("code = %q, want %q", txErr.Code, domainerror.ErrCodeTransactionNotRecorded)
	}
}

func TestRecordChannelTransactionAutoCategorizes(t *testing.T) {
	linkRepo, txRepo, categoryRepo, userID := newLinkedSetup("chat-1")
	grocery := entity.NewCategory(userID, "Mercado", entity.TransactionTypeExpense, []string{"mercado", "feira"})
	salary := entity.NewCategory(userID, "Salário", entity.TransactionTypeIncome, []string{"salário"})
	categoryRepo.categories = []*entity.Category{grocery, salary}

	uc := NewRecordChannelTransactionUseCase(linkRepo, txRepo, categoryRepo)

	_, err := uc.Execute(context.Background(), RecordChannelTransactionInput{
		ChannelID: "chat-1",
		Intent: entity.ParsedIntent{
			Direction: entity.DirectionOutflow,
			Amount:    decimal.RequireFromString("50"),
			Memo:      "compras no Mercado central",
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	tx := txRepo.created[0]
	if tx.CategoryID == nil || *tx.CategoryID != grocery.ID {
		t.Errorf("categoryID = %v, want %v", tx.CategoryID, grocery.ID)
	}
}

func TestRecordChannelTransactionCategoryTypeMustMatch(t *testing.T) {
	linkRepo, txRepo, categoryRepo, userID := newLinkedSetup("chat-1")
	// Expense category whose keyword appears in an inflow memo.
	categoryRepo.categories = []*entity.Category{
		entity.NewCategory(userID, "Mercado", entity.TransactionTypeExpense, []string{"mercado"}),
	}
	uc := NewRecordChannelTransactionUseCase(linkRepo, txRepo, categoryRepo)

	_, err := uc.Execute(context.Background(), RecordChannelTransactionInput{
		ChannelID: "chat-1",
		Intent: entity.ParsedIntent{
			Direction: entity.DirectionInflow,
			Amount:    decimal.RequireFromString("100"),
			Memo:      "venda mercado",
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if txRepo.created[0].CategoryID != nil {
		t.Error("inflow must not match an expense category")
	}
}

func TestRecordChannelTransactionCategoryLookupFailureIsNonFatal(t *testing.T) {
	linkRepo, txRepo, categoryRepo, _ := newLinkedSetup("chat-1")
	categoryRepo.findErr = errors.New("category store down")
	uc := NewRecordChannelTransactionUseCase(linkRepo, txRepo, categoryRepo)

	_, err := uc.Execute(context.Background(), RecordChannelTransactionInput{
		ChannelID: "chat-1",
		Intent: entity.ParsedIntent{
			Direction: entity.DirectionOutflow,
			Amount:    decimal.RequireFromString("50"),
			Memo:      "mercado",
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, category lookup must not fail recording", err)
	}
	if len(txRepo.created) != 1 || txRepo.created[0].CategoryID != nil {
		t.Error("entry should be recorded uncategorized")
	}
}
