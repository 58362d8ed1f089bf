package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const previewLength = 50

type SendMessageInput struct {
	ToUserID    string
	ListingID   string
	Content     string
	MessageType string
}

// Conversation 相手 × 出品ごとの会話 (最新メッセージのみ)
type Conversation struct {
	OtherUserID     string    `json:"other_user_id"`
	OtherUserName   string    `json:"other_user_name"`
	OtherUserImage  *string   `json:"other_user_image"`
	ListingID       string    `json:"listing_id"`
	ListingTitle    string    `json:"listing_title"`
	ListingImage    *string   `json:"listing_image"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
}

func validMessageType(t string) bool {
	return t == models.MessageText || t == models.MessageAudio
}

// appendMessage トランザクション内でメッセージを追加する
func (s *Service) appendMessage(tx *gorm.DB, from, to, listingID, content, msgType string) (models.Message, error) {
	msg := models.Message{
		ID:          uuid.NewString(),
		FromUserID:  from,
		ToUserID:    to,
		ListingID:   listingID,
		Content:     content,
		MessageType: msgType,
		CreatedAt:   s.timestamp(),
	}
	if err := tx.Create(&msg).Error; err != nil {
		return models.Message{}, dbError("create message", err)
	}
	return msg, nil
}

// SendMessage メッセージ送信 (相手がオンラインなら即時配信)
func (s *Service) SendMessage(ctx context.Context, fromID string, in SendMessageInput) (*models.Message, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, Validation("Nachricht darf nicht leer sein")
	}
	if in.ToUserID == "" || in.ListingID == "" {
		return nil, Validation("Empfänger und Anzeige sind erforderlich")
	}
	msgType := in.MessageType
	if msgType == "" {
		msgType = models.MessageText
	}
	if !validMessageType(msgType) {
		return nil, Validation("Ungültiger Nachrichtentyp")
	}
	if in.ToUserID == fromID {
		return nil, Validation("Sie können sich nicht selbst schreiben")
	}

	db := s.db.WithContext(ctx)
	// 削除済みユーザーのトークンでは送れない
	if _, err := s.findUser(db, fromID); err != nil {
		return nil, err
	}
	if _, err := s.findUser(db, in.ToUserID); err != nil {
		return nil, err
	}
	msg, err := s.appendMessage(db, fromID, in.ToUserID, in.ListingID, in.Content, msgType)
	if err != nil {
		return nil, err
	}
	s.notify(msg)
	return &msg, nil
}

// Conversations 新しい順に走査し (相手, 出品) ごとに最初に見つかったものを残す
func (s *Service) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	db := s.db.WithContext(ctx)
	var msgs []models.Message
	err := db.Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC, id DESC").Limit(1000).Find(&msgs).Error
	if err != nil {
		return nil, dbError("list messages", err)
	}

	type key struct{ other, listing string }
	seen := make(map[key]bool)
	var groups []models.Message
	var userIDs, listingIDs []string
	for _, m := range msgs {
		other := m.ToUserID
		if m.FromUserID != userID {
			other = m.FromUserID
		}
		k := key{other, m.ListingID}
		if seen[k] {
			continue
		}
		seen[k] = true
		groups = append(groups, m)
		userIDs = append(userIDs, other)
		listingIDs = append(listingIDs, m.ListingID)
	}

	users, err := loadUsers(db, userIDs)
	if err != nil {
		return nil, dbError("load conversation users", err)
	}
	listings, err := loadListings(db, listingIDs)
	if err != nil {
		return nil, dbError("load conversation listings", err)
	}

	out := make([]Conversation, 0, len(groups))
	for i, m := range groups {
		other := userIDs[i]
		conv := Conversation{
			OtherUserID:     other,
			OtherUserName:   userName(users, other),
			ListingID:       m.ListingID,
			ListingTitle:    listingTitle(listings, m.ListingID),
			ListingImage:    listingImage(listings, m.ListingID),
			LastMessage:     preview(m.Content),
			LastMessageTime: m.CreatedAt,
		}
		if u, ok := users[other]; ok {
			conv.OtherUserImage = u.ProfileImage
		}
		out = append(out, conv)
	}
	return out, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	return string([]rune(content)[:previewLength])
}

// UnreadCount 自分宛ての未読数 (会話ごとではなく全体)
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where(map[string]interface{}{"to_user_id": userID, "read": false}).Count(&count).Error
	if err != nil {
		return 0, dbError("count unread", err)
	}
	return count, nil
}

func threadQuery(db *gorm.DB, listingID, a, b string) *gorm.DB {
	return db.Model(&models.Message{}).
		Where("listing_id = ?", listingID).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a)
}

// Thread 2人の間の出品ごとのメッセージ (古い順)
func (s *Service) Thread(ctx context.Context, listingID, userID, otherID string) ([]models.Message, error) {
	var msgs []models.Message
	err := threadQuery(s.db.WithContext(ctx), listingID, userID, otherID).
		Order("created_at ASC, id ASC").Limit(1000).Find(&msgs).Error
	if err != nil {
		return nil, dbError("list thread", err)
	}
	return msgs, nil
}

// MarkThreadRead 相手から自分宛てのメッセージを既読にする
func (s *Service) MarkThreadRead(ctx context.Context, listingID, userID, otherID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where(map[string]interface{}{
			"listing_id":   listingID,
			"from_user_id": otherID,
			"to_user_id":   userID,
			"read":         false,
		}).
		UpdateColumn("read", true)
	if res.Error != nil {
		return 0, dbError("mark thread read", res.Error)
	}
	return res.RowsAffected, nil
}
