package service

import (
	"context"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stats 管理画面のダッシュボード
type Stats struct {
	Users       int64 `json:"users"`
	Listings    int64 `json:"listings"`
	Messages    int64 `json:"messages"`
	Offers      int64 `json:"offers"`
	OpenTickets int64 `json:"open_tickets"`
}

// DeleteUser ユーザーと関連データを1つのトランザクションで削除する
func (s *Service) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return Validation("Sie können Ihr eigenes Konto nicht löschen")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findUser(tx, userID); err != nil {
			return err
		}

		// このユーザーが評価した相手は平均の再計算が必要
		var affected []string
		err := tx.Model(&models.Review{}).
			Where("reviewer_id = ? AND reviewed_user_id <> ?", userID, userID).
			Distinct().Pluck("reviewed_user_id", &affected).Error
		if err != nil {
			return dbError("collect reviewed users", err)
		}

		owned := tx.Model(&models.Listing{}).Select("id").Where("seller_id = ?", userID)
		steps := []struct {
			name  string
			model interface{}
			query *gorm.DB
		}{
			{"favorites", &models.Favorite{}, tx.Where("user_id = ? OR listing_id IN (?)", userID, owned)},
			{"listings", &models.Listing{}, tx.Where("seller_id = ?", userID)},
			{"messages", &models.Message{}, tx.Where("from_user_id = ? OR to_user_id = ?", userID, userID)},
			{"offers", &models.Offer{}, tx.Where("buyer_id = ? OR seller_id = ?", userID, userID)},
			{"reviews", &models.Review{}, tx.Where("reviewer_id = ? OR reviewed_user_id = ?", userID, userID)},
			{"user", &models.User{}, tx.Where("id = ?", userID)},
		}
		for _, step := range steps {
			if err := step.query.Delete(step.model).Error; err != nil {
				return dbError("delete "+step.name, err)
			}
		}

		for _, target := range affected {
			if err := recomputeRating(tx, target); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", userID), zap.String("by", actorID))
	return nil
}

// Stats 件数の集計
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	var st Stats
	counts := []struct {
		model interface{}
		dst   *int64
		where map[string]interface{}
	}{
		{&models.User{}, &st.Users, nil},
		{&models.Listing{}, &st.Listings, nil},
		{&models.Message{}, &st.Messages, nil},
		{&models.Offer{}, &st.Offers, nil},
		{&models.SupportTicket{}, &st.OpenTickets, map[string]interface{}{"status": models.TicketOpen}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, dbError("count", err)
		}
	}
	return &st, nil
}
