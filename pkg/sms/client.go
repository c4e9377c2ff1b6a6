package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.twilio.com"

// Client talks to a Twilio-compatible Messages API.
type Client struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	HTTPClient *http.Client
}

type SendMessageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// APIError is the provider's error body for non-2xx responses.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("sms provider error %d (http %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sms provider error (http %d): %s", e.StatusCode, e.Message)
}

func NewClient(baseURL, accountSID, authToken, from string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NormalizePhone converts a local number to E.164 using defaultCountryCode.
// Numbers already starting with "+" are only stripped of separators.
func NormalizePhone(phone, defaultCountryCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if cleaned == "" || strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if strings.HasPrefix(cleaned, "00") {
		return "+" + cleaned[2:]
	}
	cc := defaultCountryCode
	if !strings.HasPrefix(cc, "+") {
		cc = "+" + cc
	}
	// Drop the national trunk prefix, 06xxx becomes +336xxx
	cleaned = strings.TrimPrefix(cleaned, "0")
	return cc + cleaned
}

// SendMessage sends body to an E.164 number.
func (c *Client) SendMessage(ctx context.Context, to, body string) (*SendMessageResponse, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.BaseURL, url.PathEscape(c.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var response SendMessageResponse
	if err := c.do(req, &response); err != nil {
		return nil, err
	}
	if response.ErrorCode != nil {
		return &response, &APIError{StatusCode: http.StatusOK, Code: *response.ErrorCode, Message: response.ErrorMessage}
	}
	return &response, nil
}

// VerifyAccount checks the credentials by fetching the account resource.
func (c *Client) VerifyAccount(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s.json", c.BaseURL, url.PathEscape(c.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	var account struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := c.do(req, &account); err != nil {
		return err
	}
	if account.Status != "" && account.Status != "active" {
		return fmt.Errorf("sms account is %s", account.Status)
	}
	return nil
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
