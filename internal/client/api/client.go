package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetToken устанавливает bearer токен для последующих запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// RequestError описывает отклоненный сервером запрос
type RequestError struct {
	StatusCode int
	Message    string
	// Fields содержит ошибки валидации по полям (статус 400)
	Fields api.ValidationErrors
}

func (e *RequestError) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		fmt.Fprintf(&sb, "request rejected (%d):", e.StatusCode)
		for _, k := range keys {
			for _, msg := range e.Fields[k] {
				fmt.Fprintf(&sb, "\n  %s: %s", k, msg)
			}
		}
		return sb.String()
	}
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req, nil); err != nil {
		return fmt.Errorf("register request failed: %w", err)
	}
	return nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// ListSoftware возвращает каталог программ
func (c *Client) ListSoftware(ctx context.Context) ([]models.Software, error) {
	var resp []models.Software
	if err := c.doRequest(ctx, http.MethodGet, "/api/software", nil, &resp); err != nil {
		return nil, fmt.Errorf("list software request failed: %w", err)
	}
	return resp, nil
}

// ListLists возвращает списки текущего пользователя
func (c *Client) ListLists(ctx context.Context) ([]models.SoftwareList, error) {
	var resp []models.SoftwareList
	if err := c.doRequest(ctx, http.MethodGet, "/api/lists", nil, &resp); err != nil {
		return nil, fmt.Errorf("list lists request failed: %w", err)
	}
	return resp, nil
}

// GetList возвращает один список пользователя
func (c *Client) GetList(ctx context.Context, id int64) (*models.SoftwareList, error) {
	var resp models.SoftwareList
	path := fmt.Sprintf("/api/lists/%d", id)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get list request failed: %w", err)
	}
	return &resp, nil
}

// CreateList создает новый список
func (c *Client) CreateList(ctx context.Context, name string) (*models.SoftwareList, error) {
	var resp models.SoftwareList
	req := api.SoftwareListRequest{Name: name}
	if err := c.doRequest(ctx, http.MethodPost, "/api/lists", req, &resp); err != nil {
		return nil, fmt.Errorf("create list request failed: %w", err)
	}
	return &resp, nil
}

// DeleteList удаляет список пользователя
func (c *Client) DeleteList(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/lists/%d", id)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete list request failed: %w", err)
	}
	return nil
}

// AddSoftware добавляет программу в список
func (c *Client) AddSoftware(ctx context.Context, listID, softwareID int64) error {
	path := fmt.Sprintf("/api/lists/%d/software/%d", listID, softwareID)
	if err := c.doRequest(ctx, http.MethodPut, path, nil, nil); err != nil {
		return fmt.Errorf("add software request failed: %w", err)
	}
	return nil
}

// RemoveSoftware убирает программу из списка
func (c *Client) RemoveSoftware(ctx context.Context, listID, softwareID int64) error {
	path := fmt.Sprintf("/api/lists/%d/software/%d", listID, softwareID)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remove software request failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.requestError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// requestError разбирает тело ошибки: 400 несет карту ошибок валидации,
// 401 приходит как plain text, прочие статусы как JSON с message
func (c *Client) requestError(status int, body []byte) error {
	reqErr := &RequestError{StatusCode: status}

	switch status {
	case http.StatusBadRequest:
		var fields api.ValidationErrors
		if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
			reqErr.Fields = fields
			return reqErr
		}
	case http.StatusUnauthorized:
		reqErr.Message = strings.TrimSpace(string(body))
		return reqErr
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		reqErr.Message = errResp.Message
	} else {
		reqErr.Message = strings.TrimSpace(string(body))
	}
	return reqErr
}
