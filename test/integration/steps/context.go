//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/natural-surplus/backend/config"
	"github.com/natural-surplus/backend/internal/application/usecase/plan"
	"github.com/natural-surplus/backend/internal/infra/dependency"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
	"github.com/natural-surplus/backend/test/integration/mock"
)

const (
	testJWTSecret   = "test-jwt-secret-key-for-testing-purposes"
	testAdminKey    = "test-admin-key"
	defaultPassword = "DefaultPass123!"
)

type account struct {
	id           uuid.UUID
	referralCode string
	accessToken  string
	refreshToken string
}

type testContext struct {
	uri        string
	headers    map[string]string
	client     *http.Client
	response   *response
	db         *mock.Db
	daraja     *mock.ApiMock
	timeMock   *mock.Time
	serverPort int

	accessToken  string
	refreshToken string
	accounts     map[string]*account

	lastInvestmentID  uuid.UUID
	checkoutRequestID string
}

type response struct {
	status int
	body   any
}

var (
	serverInit     sync.Once
	portInit       sync.Once
	testServerPort int
	testDB         *mock.Db
	testDaraja     *mock.ApiMock
	testClock      *mock.Time
	testInjector   *dependency.Injector
)

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	if testDaraja == nil {
		testDaraja = mock.NewApiServer()
		testDaraja.Start()
	}
	if testClock == nil {
		testClock = mock.NewTime()
	}

	test := &testContext{
		uri:        fmt.Sprintf("http://localhost:%d", testServerPort),
		client:     &http.Client{Timeout: 10 * time.Second},
		timeMock:   testClock,
		daraja:     testDaraja,
		serverPort: testServerPort,
		db:         mock.NewDb("natural_surplus", testModels()),
	}
	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Step(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Step(`^the default plans are available$`, test.theDefaultPlansAreAvailable)

	// Account steps
	ctx.Step(`^a registered user "([^"]*)"$`, test.aRegisteredUser)
	ctx.Step(`^a registered user "([^"]*)" referred by "([^"]*)"$`, test.aRegisteredUserReferredBy)
	ctx.Step(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)
	ctx.Step(`^"([^"]*)" has a balance of "([^"]*)"$`, test.hasABalanceOf)
	ctx.Step(`^I am the operator$`, test.iAmTheOperator)

	// Investment steps
	ctx.Step(`^I invest in the "([^"]*)" plan$`, test.iInvestInThePlan)
	ctx.Step(`^(\d+) hours pass$`, test.hoursPass)

	// Daraja steps
	ctx.Step(`^Daraja accepts STK pushes with checkout request "([^"]*)"$`, test.darajaAcceptsSTKPushes)
	ctx.Step(`^Daraja rejects STK pushes with error "([^"]*)" "([^"]*)"$`, test.darajaRejectsSTKPushes)
	ctx.Step(`^Daraja reports result "([^"]*)" for checkout request "([^"]*)"$`, test.darajaReportsResult)
	ctx.Step(`^Daraja confirms a payment of (\d+) for checkout request "([^"]*)" with receipt "([^"]*)"$`, test.darajaConfirmsAPayment)
	ctx.Step(`^Daraja reports failure (\d+) "([^"]*)" for checkout request "([^"]*)"$`, test.darajaReportsFailure)
	ctx.Step(`^Daraja should have received (\d+) STK push requests?$`, test.darajaShouldHaveReceivedSTKPushes)

	// Header steps
	ctx.Step(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Step(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Step(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Step(`^the response amount "([^"]*)" should be "([^"]*)"$`, test.theResponseAmountShouldBe)
	ctx.Step(`^the response list "([^"]*)" should have (\d+) items?$`, test.theResponseListShouldHaveItems)

	// Database assertion steps
	ctx.Step(`^the balance of "([^"]*)" should be "([^"]*)"$`, test.theBalanceOfShouldBe)
	ctx.Step(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Step(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func testModels() map[string]any {
	return map[string]any{
		"users":            &model.UserModel{},
		"refresh_tokens":   &model.RefreshTokenModel{},
		"investment_plans": &model.InvestmentPlanModel{},
		"investments":      &model.InvestmentModel{},
		"ledger_entries":   &model.LedgerEntryModel{},
		"deposits":         &model.DepositModel{},
		"payout_runs":      &model.PayoutRunModel{},
		"email_queue":      &model.EmailQueueModel{},
	}
}

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.refreshToken = ""
	t.accounts = make(map[string]*account)
	t.lastInvestmentID = uuid.Nil
	t.checkoutRequestID = ""
	t.response = nil

	t.timeMock.SetCurrentTime(time.Now().UTC())
	t.daraja.Reset()
	t.daraja.StubDarajaToken()

	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}
	if t.db != nil {
		return t.db.ClearDB()
	}
	return nil
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Port = testServerPort
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.BcryptCost = 4
	cfg.Admin.APIKey = testAdminKey
	cfg.CORS.AllowedOrigins = nil
	cfg.Mpesa.BaseURL = testDaraja.GetUrl()
	cfg.Mpesa.ConsumerKey = "test-consumer-key"
	cfg.Mpesa.ConsumerSecret = "test-consumer-secret"
	cfg.Mpesa.Passkey = "test-passkey"
	cfg.Mpesa.CallbackURL = "https://example.com/api/v1/deposits/mpesa/callback"
	cfg.Mpesa.AllowedCallbackIPs = nil
	cfg.Mpesa.Timeout = 5 * time.Second
	return cfg
}

func (t *testContext) startServer() error {
	var startErr error
	serverInit.Do(func() {
		injector, err := dependency.NewInjector(testConfig(), testDB.DbConn, mock.NewRedis(), dependency.WithClock(testClock))
		if err != nil {
			startErr = fmt.Errorf("failed to wire dependencies: %w", err)
			return
		}
		testInjector = injector

		engine := injector.Router.Setup("test")
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", testServerPort),
			Handler: engine,
		}
		go func() {
			_ = server.ListenAndServe()
		}()
	})
	if startErr != nil {
		return startErr
	}

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become healthy on port %d", testServerPort)
}

func (t *testContext) theAPIServerIsRunning() error {
	return t.startServer()
}

func (t *testContext) theDefaultPlansAreAvailable() error {
	if testInjector == nil {
		return fmt.Errorf("server is not running")
	}
	_, err := testInjector.SeedPlans.Execute(context.Background(), plan.SeedPlansInput{OnlyIfEmpty: true})
	return err
}
