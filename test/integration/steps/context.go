// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/controle-financeiro/backend/internal/application/adapter"
	"github.com/controle-financeiro/backend/internal/application/usecase/linking"
	"github.com/controle-financeiro/backend/internal/application/usecase/transaction"
	"github.com/controle-financeiro/backend/internal/infra/server/router"
	"github.com/controle-financeiro/backend/internal/integration/adapters"
	"github.com/controle-financeiro/backend/internal/integration/entrypoint/controller"
	"github.com/controle-financeiro/backend/internal/integration/entrypoint/middleware"
	"github.com/controle-financeiro/backend/internal/integration/persistence"
	"github.com/controle-financeiro/backend/internal/integration/persistence/model"
	"github.com/controle-financeiro/backend/internal/integration/telegram"
	"github.com/controle-financeiro/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// testEnv holds the resources shared by all scenarios: the in-memory
// database, the HTTP server and the bot handler over a capturing sender.
type testEnv struct {
	db           *mock.Db
	server       *httptest.Server
	tokenService adapter.TokenService
	botSender    *mock.TelegramSender
	botHandler   *telegram.Handler
}

var envOnce sync.Once
var env *testEnv

func sharedEnv() *testEnv {
	envOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		db := mock.NewDb(map[string]any{
			"linking_codes": &model.LinkingCodeModel{},
			"channel_links": &model.ChannelLinkModel{},
			"categories":    &model.CategoryModel{},
			"transactions":  &model.TransactionModel{},
		})

		codeRepo := persistence.NewLinkingCodeRepository(db.DbConn)
		linkRepo := persistence.NewChannelLinkRepository(db.DbConn)
		categoryRepo := persistence.NewCategoryRepository(db.DbConn)
		transactionRepo := persistence.NewTransactionRepository(db.DbConn)

		tokenService := adapters.NewTokenService(testJWTSecret)

		issueUseCase := linking.NewIssueLinkingCodeUseCase(codeRepo)
		consumeUseCase := linking.NewConsumeLinkingCodeUseCase(codeRepo, linkRepo)
		statusUseCase := linking.NewGetLinkStatusUseCase(linkRepo)
		unlinkUseCase := linking.NewUnlinkChannelUseCase(linkRepo)
		recordUseCase := transaction.NewRecordChannelTransactionUseCase(linkRepo, transactionRepo, categoryRepo)

		healthController := controller.NewHealthController(func() bool {
			return db.DbConn != nil
		})
		telegramController := controller.NewTelegramController(issueUseCase, statusUseCase, unlinkUseCase)
		authMiddleware := middleware.NewAuthMiddleware(tokenService)

		r := router.NewRouter(healthController, telegramController, nil, authMiddleware)
		engine := r.Setup("test")

		botSender := mock.NewTelegramSender()
		limiter := adapters.NewLinkAttemptLimiter(mock.NewRedis(), 100, time.Minute)
		botHandler := telegram.NewHandler(botSender, consumeUseCase, recordUseCase, limiter)

		env = &testEnv{
			db:           db,
			server:       httptest.NewServer(engine),
			tokenService: tokenService,
			botSender:    botSender,
			botHandler:   botHandler,
		}
	})

	return env
}

// testContext carries per-scenario state.
type testContext struct {
	env           *testEnv
	client        *http.Client
	headers       map[string]string
	accessToken   string
	currentUserID uuid.UUID
	response      *response
}

type response struct {
	status int
	body   any
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		sharedEnv()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		env:    sharedEnv(),
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Auth steps
	ctx.Given(`^I am authenticated$`, test.iAmAuthenticated)
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)

	// Linking setup steps
	ctx.Given(`^a linking code "([^"]*)" exists for the user$`, test.aLinkingCodeExistsForTheUser)
	ctx.Given(`^an expired linking code "([^"]*)" exists for the user$`, test.anExpiredLinkingCodeExistsForTheUser)
	ctx.Given(`^the chat "([^"]*)" is linked to the user$`, test.theChatIsLinkedToTheUser)
	ctx.Given(`^a category "([^"]*)" of type "([^"]*)" with keyword "([^"]*)" exists for the user$`, test.aCategoryWithKeywordExistsForTheUser)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^the bot receives "([^"]*)" from chat "([^"]*)"$`, test.theBotReceivesFromChat)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Bot assertion steps
	ctx.Then(`^the bot should reply "([^"]*)"$`, test.theBotShouldReply)
	ctx.Then(`^the bot reply should contain "([^"]*)"$`, test.theBotReplyShouldContain)
	ctx.Then(`^the bot should send no reply$`, test.theBotShouldSendNoReply)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.currentUserID = uuid.Nil
	t.response = nil

	t.env.botSender.Reset()
	_ = t.env.db.ClearDB()
}

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := t.client.Get(t.env.server.URL + "/health")
	if err != nil {
		return fmt.Errorf("server is not reachable: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) iAmAuthenticated() error {
	t.currentUserID = uuid.New()

	token, err := t.env.tokenService.GenerateAccessToken(t.currentUserID, "test@example.com", 15*time.Minute)
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}
	t.accessToken = token
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) aLinkingCodeExistsForTheUser(code string) error {
	return t.insertLinkingCode(code, time.Now().UTC().Add(10*time.Minute))
}

func (t *testContext) anExpiredLinkingCodeExistsForTheUser(code string) error {
	return t.insertLinkingCode(code, time.Now().UTC().Add(-time.Minute))
}

func (t *testContext) insertLinkingCode(code string, expiresAt time.Time) error {
	if t.currentUserID == uuid.Nil {
		t.currentUserID = uuid.New()
	}

	row := &model.LinkingCodeModel{
		Code:      code,
		UserID:    t.currentUserID,
		IssuedAt:  expiresAt.Add(-10 * time.Minute),
		ExpiresAt: expiresAt,
	}
	return t.env.db.DbConn.Create(row).Error
}

func (t *testContext) theChatIsLinkedToTheUser(chatID string) error {
	if t.currentUserID == uuid.Nil {
		t.currentUserID = uuid.New()
	}

	row := &model.ChannelLinkModel{
		ChannelID: chatID,
		UserID:    t.currentUserID,
		LinkedAt:  time.Now().UTC(),
	}
	return t.env.db.DbConn.Create(row).Error
}

func (t *testContext) aCategoryWithKeywordExistsForTheUser(name, categoryType, keyword string) error {
	if t.currentUserID == uuid.Nil {
		t.currentUserID = uuid.New()
	}

	now := time.Now().UTC()
	row := &model.CategoryModel{
		ID:        uuid.New(),
		UserID:    t.currentUserID,
		Name:      name,
		Type:      categoryType,
		Keywords:  pq.StringArray{keyword},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return t.env.db.DbConn.Create(row).Error
}

func (t *testContext) iSendARequestTo(method, path string) error {
	req, err := http.NewRequest(method, t.env.server.URL+path, bytes.NewReader(nil))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
	} else {
		t.response.body = responseBody
	}

	return nil
}

func (t *testContext) theBotReceivesFromChat(text, chatID string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}

	update := tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: id},
			Text: text,
		},
	}
	t.env.botHandler.HandleUpdate(context.Background(), update)
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	value, err := t.responseField(field)
	if err != nil {
		return err
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	_, err := t.responseField(field)
	return err
}

func (t *testContext) responseField(field string) (any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value, exists := body[field]
	if !exists {
		return nil, fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return value, nil
}

func (t *testContext) theBotShouldReply(expected string) error {
	got := t.env.botSender.LastText()
	if got == "" {
		return errors.New("the bot sent no reply")
	}
	if got != expected {
		return fmt.Errorf("bot replied %q, expected %q", got, expected)
	}
	return nil
}

func (t *testContext) theBotReplyShouldContain(expected string) error {
	got := t.env.botSender.LastText()
	if got == "" {
		return errors.New("the bot sent no reply")
	}
	if !strings.Contains(got, expected) {
		return fmt.Errorf("bot replied %q, expected it to contain %q", got, expected)
	}
	return nil
}

func (t *testContext) theBotShouldSendNoReply() error {
	if sent := t.env.botSender.Sent(); len(sent) != 0 {
		return fmt.Errorf("the bot sent %d replies, expected none (last: %q)", len(sent), sent[len(sent)-1].Text)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	entity, ok := t.env.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.env.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}
