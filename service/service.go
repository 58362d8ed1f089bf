package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kousuke-irie/chancenmarket-backend/auth"
	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	deletedUserName    = "Gelöschter Benutzer"
	deletedListingName = "Gelöschte Anzeige"
)

// Notifier 新着メッセージのリアルタイム配信先
type Notifier interface {
	NotifyMessage(userID string, msg models.Message)
}

// TextGenerator 外部のAIテキスト生成
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Actor 操作しているユーザー
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// Service マーケットの業務ロジック
type Service struct {
	db       *gorm.DB
	tokens   *auth.Issuer
	log      *zap.Logger
	notifier Notifier
	ai       TextGenerator
	payments PaymentProvider
	currency string
	now      func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }
func WithTextGenerator(g TextGenerator) Option { return func(s *Service) { s.ai = g } }

// WithPayments 決済プロバイダーと通貨 (例: "eur")
func WithPayments(p PaymentProvider, currency string) Option {
	return func(s *Service) {
		s.payments = p
		s.currency = currency
	}
}

// WithClock テスト用
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func New(db *gorm.DB, tokens *auth.Issuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		db:       db,
		tokens:   tokens,
		log:      log,
		currency: "eur",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() time.Time { return s.now().UTC() }

func (s *Service) notify(msgs ...models.Message) {
	if s.notifier == nil {
		return
	}
	for _, m := range msgs {
		s.notifier.NotifyMessage(m.ToUserID, m)
	}
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// loadUsers IDの集合からユーザーをまとめて取得する
func loadUsers(db *gorm.DB, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := db.Where("id IN ?", unique(ids)).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func loadListings(db *gorm.DB, ids []string) (map[string]models.Listing, error) {
	out := make(map[string]models.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var listings []models.Listing
	if err := db.Where("id IN ?", unique(ids)).Find(&listings).Error; err != nil {
		return nil, err
	}
	for _, l := range listings {
		out[l.ID] = l
	}
	return out, nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func userName(users map[string]models.User, id string) string {
	if u, ok := users[id]; ok {
		return u.Name
	}
	return deletedUserName
}

func listingTitle(listings map[string]models.Listing, id string) string {
	if l, ok := listings[id]; ok {
		return l.Title
	}
	return deletedListingName
}

func listingImage(listings map[string]models.Listing, id string) *string {
	if l, ok := listings[id]; ok {
		return l.FirstImage()
	}
	return nil
}
