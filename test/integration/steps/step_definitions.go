//go:build integration

package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/natural-surplus/backend/internal/integration/entrypoint/middleware"
	"github.com/natural-surplus/backend/internal/integration/persistence/model"
	"github.com/natural-surplus/backend/test/integration/mock"
)

var referralPlaceholder = regexp.MustCompile(`\{\{referral_code:([^}]+)\}\}`)

// Account steps

func (t *testContext) aRegisteredUser(email string) error {
	return t.register(email, "")
}

func (t *testContext) aRegisteredUserReferredBy(email, referrer string) error {
	parent, ok := t.accounts[referrer]
	if !ok {
		return fmt.Errorf("referrer %q has not registered", referrer)
	}
	return t.register(email, parent.referralCode)
}

func (t *testContext) register(email, referralCode string) error {
	payload, err := json.Marshal(map[string]string{
		"name":          strings.Split(email, "@")[0],
		"email":         email,
		"password":      defaultPassword,
		"referral_code": referralCode,
	})
	if err != nil {
		return err
	}

	saved := t.accessToken
	t.accessToken = ""
	err = t.executeRequest(http.MethodPost, "/api/v1/auth/register", payload)
	t.accessToken = saved
	if err != nil {
		return err
	}
	if t.response.status != http.StatusCreated {
		return fmt.Errorf("registering %s returned %d: %v", email, t.response.status, t.response.body)
	}

	id, err := uuid.Parse(fmt.Sprint(getFieldValue(t.response.body, "user.id")))
	if err != nil {
		return fmt.Errorf("register response has no user id: %w", err)
	}
	t.accounts[email] = &account{
		id:           id,
		referralCode: fmt.Sprint(getFieldValue(t.response.body, "user.referral_code")),
		accessToken:  fmt.Sprint(getFieldValue(t.response.body, "access_token")),
		refreshToken: fmt.Sprint(getFieldValue(t.response.body, "refresh_token")),
	}
	return nil
}

func (t *testContext) iAmLoggedInAs(email string) error {
	acc, ok := t.accounts[email]
	if !ok {
		return fmt.Errorf("user %q has not registered", email)
	}
	t.accessToken = acc.accessToken
	t.refreshToken = acc.refreshToken
	return nil
}

func (t *testContext) hasABalanceOf(email, amount string) error {
	balance, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", amount, err)
	}
	return t.db.DbConn.Model(&model.UserModel{}).
		Where("email = ?", email).
		Update("balance", balance).Error
}

func (t *testContext) iAmTheOperator() error {
	t.headers[middleware.AdminKeyHeader] = testAdminKey
	return nil
}

// Investment steps

func (t *testContext) iInvestInThePlan(name string) error {
	var plan model.InvestmentPlanModel
	if err := t.db.DbConn.Where("name = ?", name).First(&plan).Error; err != nil {
		return fmt.Errorf("plan %q not found: %w", name, err)
	}

	payload := []byte(fmt.Sprintf(`{"plan_id": %q}`, plan.ID.String()))
	return t.executeRequest(http.MethodPost, "/api/v1/investments", payload)
}

func (t *testContext) hoursPass(hours int) error {
	t.timeMock.Advance(time.Duration(hours) * time.Hour)
	return nil
}

// Daraja steps

func (t *testContext) darajaAcceptsSTKPushes(checkoutID string) error {
	t.daraja.AcceptSTKPush("mock-merchant-"+checkoutID, checkoutID)
	return nil
}

func (t *testContext) darajaRejectsSTKPushes(code, message string) error {
	t.daraja.RejectSTKPush(http.StatusBadRequest, code, message)
	return nil
}

func (t *testContext) darajaReportsResult(resultCode, checkoutID string) error {
	t.daraja.AnswerSTKQuery(checkoutID, resultCode, "The service request is processed successfully.")
	return nil
}

func (t *testContext) darajaConfirmsAPayment(amount int, checkoutID, receipt string) error {
	return t.sendCallback(map[string]any{
		"MerchantRequestID": "mock-merchant-" + checkoutID,
		"CheckoutRequestID": checkoutID,
		"ResultCode":        0,
		"ResultDesc":        "The service request is processed successfully.",
		"CallbackMetadata": map[string]any{
			"Item": []map[string]any{
				{"Name": "Amount", "Value": amount},
				{"Name": "MpesaReceiptNumber", "Value": receipt},
				{"Name": "TransactionDate", "Value": 20260301120000},
				{"Name": "PhoneNumber", "Value": 254712345678},
			},
		},
	})
}

func (t *testContext) darajaReportsFailure(resultCode int, resultDesc, checkoutID string) error {
	return t.sendCallback(map[string]any{
		"MerchantRequestID": "mock-merchant-" + checkoutID,
		"CheckoutRequestID": checkoutID,
		"ResultCode":        resultCode,
		"ResultDesc":        resultDesc,
	})
}

func (t *testContext) sendCallback(stkCallback map[string]any) error {
	payload, err := json.Marshal(map[string]any{
		"Body": map[string]any{"stkCallback": stkCallback},
	})
	if err != nil {
		return err
	}
	return t.executeRequest(http.MethodPost, "/api/v1/deposits/mpesa/callback", payload)
}

func (t *testContext) darajaShouldHaveReceivedSTKPushes(count int) error {
	if got := t.daraja.RequestCount(http.MethodPost, mock.DarajaSTKPushPath); got != count {
		return fmt.Errorf("expected %d STK push requests, got %d", count, got)
	}
	return nil
}

// Request steps

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, path, payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{investment_id}}", t.lastInvestmentID.String())
	content = strings.ReplaceAll(content, "{{checkout_request_id}}", t.checkoutRequestID)

	return referralPlaceholder.ReplaceAllStringFunc(content, func(match string) string {
		email := referralPlaceholder.FindStringSubmatch(match)[1]
		if acc, ok := t.accounts[email]; ok {
			return acc.referralCode
		}
		return match
	})
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
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
		return nil
	}
	t.response.body = responseBody

	if idStr, ok := getFieldValue(responseBody, "investment.id").(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			t.lastInvestmentID = id
		}
	}
	if checkoutID, ok := getFieldValue(responseBody, "deposit.checkout_request_id").(string); ok && checkoutID != "" {
		t.checkoutRequestID = checkoutID
	}

	return nil
}

// Response assertion steps

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	expectedValue = t.replacePlaceholders(expectedValue)
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

// theResponseAmountShouldBe compares money fields numerically, so "180" matches "180.00".
func (t *testContext) theResponseAmountShouldBe(field, expected string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return equalAmounts(field, fmt.Sprintf("%v", value), expected)
}

func (t *testContext) theResponseListShouldHaveItems(field string, count int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items in '%s', got %d", count, field, len(items))
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func equalAmounts(field, actual, expected string) error {
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return fmt.Errorf("invalid expected amount %q: %w", expected, err)
	}
	got, err := decimal.NewFromString(actual)
	if err != nil {
		return fmt.Errorf("'%s' is not an amount: %q", field, actual)
	}
	if !got.Equal(want) {
		return fmt.Errorf("'%s' expected %s, got %s", field, want, got)
	}
	return nil
}

// Database assertion steps

func (t *testContext) theBalanceOfShouldBe(email, expected string) error {
	var user model.UserModel
	if err := t.db.DbConn.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user %q not found: %w", email, err)
	}
	return equalAmounts("balance of "+email, user.Balance.String(), expected)
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
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

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	var field any = objectMap
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
