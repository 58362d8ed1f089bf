package service

import (
	"context"
	"strings"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const replyFromAdmin = "admin"

func preloadReplies(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// CreateTicket お問い合わせ作成
func (s *Service) CreateTicket(ctx context.Context, userID, subject, message string) (*models.SupportTicket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" || strings.TrimSpace(message) == "" {
		return nil, Validation("Betreff und Nachricht sind erforderlich")
	}

	db := s.db.WithContext(ctx)
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	ticket := models.SupportTicket{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		Subject:   subject,
		Message:   message,
		Status:    models.TicketOpen,
		Replies:   []models.SupportReply{},
		CreatedAt: s.timestamp(),
	}
	if err := db.Create(&ticket).Error; err != nil {
		return nil, dbError("create ticket", err)
	}
	return &ticket, nil
}

func (s *Service) listTickets(ctx context.Context, userID string) ([]models.SupportTicket, error) {
	q := s.db.WithContext(ctx).Preload("Replies", preloadReplies)
	limit := 1000
	if userID != "" {
		q = q.Where("user_id = ?", userID)
		limit = maxPageSize
	}
	var tickets []models.SupportTicket
	if err := q.Order("created_at DESC").Limit(limit).Find(&tickets).Error; err != nil {
		return nil, dbError("list tickets", err)
	}
	for i := range tickets {
		if tickets[i].Replies == nil {
			tickets[i].Replies = []models.SupportReply{}
		}
	}
	return tickets, nil
}

// MyTickets 自分のお問い合わせ
func (s *Service) MyTickets(ctx context.Context, userID string) ([]models.SupportTicket, error) {
	return s.listTickets(ctx, userID)
}

// AllTickets 管理者用
func (s *Service) AllTickets(ctx context.Context) ([]models.SupportTicket, error) {
	return s.listTickets(ctx, "")
}

// ReplyTicket 管理者の返信を追加する (ステータスは変えない)
func (s *Service) ReplyTicket(ctx context.Context, ticketID, message string) (*models.SupportTicket, error) {
	if strings.TrimSpace(message) == "" {
		return nil, Validation("Antwort darf nicht leer sein")
	}

	var ticket models.SupportTicket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", ticketID).First(&ticket).Error; err != nil {
			if isNotFound(err) {
				return ErrTicketNotFound
			}
			return dbError("find ticket", err)
		}
		reply := models.SupportReply{
			ID:        uuid.NewString(),
			TicketID:  ticketID,
			From:      replyFromAdmin,
			Message:   message,
			CreatedAt: s.timestamp(),
		}
		if err := tx.Create(&reply).Error; err != nil {
			return dbError("create reply", err)
		}
		return tx.Preload("Replies", preloadReplies).Where("id = ?", ticketID).First(&ticket).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("support ticket replied", zap.String("ticket_id", ticketID))
	return &ticket, nil
}

// SetTicketStatus 管理者がステータスを変更する
func (s *Service) SetTicketStatus(ctx context.Context, ticketID, status string) error {
	if status != models.TicketOpen && status != models.TicketClosed {
		return Validation("Ungültiger Status")
	}
	res := s.db.WithContext(ctx).Model(&models.SupportTicket{}).Where("id = ?", ticketID).Update("status", status)
	if res.Error != nil {
		return dbError("update ticket status", res.Error)
	}
	if res.RowsAffected == 0 {
		// 同じ値への更新は MySQL では 0 件になるので存在を確認する
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.SupportTicket{}).Where("id = ?", ticketID).Count(&count).Error; err != nil {
			return dbError("count tickets", err)
		}
		if count == 0 {
			return ErrTicketNotFound
		}
	}
	return nil
}
