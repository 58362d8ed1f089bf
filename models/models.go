package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	OfferPending  = "pending"
	OfferAccepted = "accepted"
	OfferRejected = "rejected"

	MessageText  = "text"
	MessageAudio = "audio"

	TicketOpen   = "open"
	TicketClosed = "closed"
)

// User ユーザー
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(16);default:'user';not null" json:"role"`
	Rating       float64   `gorm:"not null;default:0" json:"rating"`
	ReviewCount  int       `gorm:"not null;default:0" json:"review_count"`
	ProfileImage *string   `gorm:"type:text" json:"profile_image"`
	PhoneEnabled bool      `gorm:"not null;default:false" json:"phone_enabled"` // 音声通話の許可
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// IsAdmin 管理者かどうか
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Listing 出品（カテゴリごとの自由項目を持つ）
type Listing struct {
	ID             string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SellerID       string                      `gorm:"type:varchar(36);not null;index" json:"seller_id"`
	SellerName     string                      `gorm:"type:varchar(255)" json:"seller_name"`
	Title          string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description    string                      `gorm:"type:text;not null" json:"description"`
	Price          float64                     `gorm:"not null" json:"price"`
	Category       string                      `gorm:"type:varchar(64);not null;index" json:"category"`
	Images         datatypes.JSONSlice[string] `json:"images"`
	Video          *string                     `gorm:"type:text" json:"video"`
	CategoryFields datatypes.JSONMap           `json:"category_fields"`
	Views          int                         `gorm:"not null;default:0" json:"views"`
	CreatedAt      time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// FirstImage 一覧表示用のサムネイル
func (l Listing) FirstImage() *string {
	if len(l.Images) == 0 {
		return nil
	}
	img := l.Images[0]
	return &img
}

// Message メッセージ（ユーザー間 × 出品ごと）
type Message struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FromUserID  string    `gorm:"type:varchar(36);not null;index" json:"from_user_id"`
	ToUserID    string    `gorm:"type:varchar(36);not null;index" json:"to_user_id"`
	ListingID   string    `gorm:"type:varchar(36);not null;index" json:"listing_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	MessageType string    `gorm:"type:varchar(16);default:'text';not null" json:"message_type"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// Offer 価格交渉
type Offer struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ListingID    string    `gorm:"type:varchar(36);not null;index" json:"listing_id"`
	BuyerID      string    `gorm:"type:varchar(36);not null;index" json:"buyer_id"`
	SellerID     string    `gorm:"type:varchar(36);not null;index" json:"seller_id"`
	OfferedPrice float64   `gorm:"not null" json:"offered_price"`
	Message      *string   `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(16);default:'pending';not null" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Review ユーザー評価 (評価者 × 被評価者で一意)
type Review struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ReviewerID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_pair" json:"reviewer_id"`
	ReviewerName   string    `gorm:"type:varchar(255)" json:"reviewer_name"`
	ReviewedUserID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_pair;index" json:"reviewed_user_id"`
	Rating         int       `gorm:"not null" json:"rating"`
	Comment        *string   `gorm:"type:text" json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
}

// Favorite お気に入り
type Favorite struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	ListingID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair;index" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SupportTicket お問い合わせ
type SupportTicket struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string         `gorm:"type:varchar(36);not null;index" json:"user_id"`
	UserName  string         `gorm:"type:varchar(255)" json:"user_name"`
	UserEmail string         `gorm:"type:varchar(255)" json:"user_email"`
	Subject   string         `gorm:"type:varchar(255);not null" json:"subject"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Status    string         `gorm:"type:varchar(16);default:'open';not null;index" json:"status"`
	Replies   []SupportReply `gorm:"foreignKey:TicketID" json:"replies"`
	CreatedAt time.Time      `json:"created_at"`
}

// SupportReply 管理者からの返信
type SupportReply struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"-"`
	TicketID  string    `gorm:"type:varchar(36);not null;index" json:"-"`
	From      string    `gorm:"column:from_role;type:varchar(16);not null" json:"from"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}

// All マイグレーション対象
func All() []interface{} {
	return []interface{}{
		&User{}, &Listing{}, &Message{}, &Offer{},
		&Review{}, &Favorite{}, &SupportTicket{}, &SupportReply{},
	}
}
