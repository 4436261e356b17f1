package loyaltyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с сервисом лояльности
// Ядро бронирования не знает про арифметику баланса: проверка достаточности
// баллов - ответственность сервиса лояльности
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса лояльности
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Credit зачисляет баллы на счёт пользователя
func (c *Client) Credit(ctx context.Context, userID int64, points int64, reason string) error {
	return c.post(ctx, fmt.Sprintf("%s/internal/accounts/%d/credit", c.baseURL, userID), points, reason)
}

// Debit списывает баллы со счёта пользователя
func (c *Client) Debit(ctx context.Context, userID int64, points int64, reason string) error {
	return c.post(ctx, fmt.Sprintf("%s/internal/accounts/%d/debit", c.baseURL, userID), points, reason)
}

func (c *Client) post(ctx context.Context, url string, points int64, reason string) error {
	body, err := json.Marshal(ledgerRequest{Points: points, Reason: reason})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrAccountNotFound
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

// CreditWithGracefulDegradation зачисляет баллы с graceful degradation
// При недоступности сервиса лояльности возвращает ErrServiceDegraded:
// отмена бронирования при этом не откатывается, зачисление нужно повторить
func (c *Client) CreditWithGracefulDegradation(ctx context.Context, userID int64, points int64, reason string) error {
	c.log.Info("Crediting %d points to user_id=%d: %s", points, userID, reason)

	if err := c.Credit(ctx, userID, points, reason); err != nil {
		// Отсутствие счёта - бизнес-ошибка, пробрасываем её дальше
		if errors.Is(err, ErrAccountNotFound) {
			c.log.Warn("No loyalty account found for user_id=%d", userID)
			return err
		}

		// Для всех остальных ошибок (недоступность, timeout) применяем
		// graceful degradation - операция вызывающей стороны не прерывается
		c.log.Error("LoyaltyService unavailable, applying graceful degradation for user_id=%d: %v", userID, err)
		return fmt.Errorf("%w: user_id=%d, error=%v", ErrServiceDegraded, userID, err)
	}

	c.log.Info("Successfully credited %d points to user_id=%d", points, userID)
	return nil
}
