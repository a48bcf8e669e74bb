// Package events рассылает события об изменении транзакций между инстансами,
// чтобы каждый сбросил свой кэш для пользователя.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrEmptyUserID = errors.New("event without user_id")

// TransactionsChanged у пользователя создана, изменена или удалена транзакция
type TransactionsChanged struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewTransactionsChanged(userID string) TransactionsChanged {
	return TransactionsChanged{UserID: userID, OccurredAt: time.Now().UTC()}
}

func decode(body []byte) (TransactionsChanged, error) {
	var msg TransactionsChanged
	if err := json.Unmarshal(body, &msg); err != nil {
		return TransactionsChanged{}, err
	}
	if msg.UserID == "" {
		return TransactionsChanged{}, ErrEmptyUserID
	}
	return msg, nil
}

type Publisher interface {
	PublishTransactionsChanged(ctx context.Context, userID string) error
	Close() error
}

// Nop используется, когда брокер не настроен
type Nop struct{}

func (Nop) PublishTransactionsChanged(context.Context, string) error { return nil }

func (Nop) Close() error { return nil }
