package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Kousuke-irie/chancenmarket-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "Anna", "anna@example.com")
	b := env.register(t, "Ben", "ben@example.com")
	l := env.listing(t, b, "Sofa", 150)

	msg, err := env.svc.SendMessage(ctx, a.ID, SendMessageInput{ToUserID: b.ID, ListingID: l.ID, Content: "Noch da?"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageText, msg.MessageType)
	assert.False(t, msg.Read)
	assert.Equal(t, 1, env.notifier.count(b.ID))

	audio, err := env.svc.SendMessage(ctx, b.ID, SendMessageInput{ToUserID: a.ID, ListingID: l.ID, Content: "https://audio.example/1.m4a", MessageType: models.MessageAudio})
	require.NoError(t, err)
	assert.Equal(t, models.MessageAudio, audio.MessageType)

	tests := []struct {
		name string
		in   SendMessageInput
		kind Kind
	}{
		{"empty content", SendMessageInput{ToUserID: b.ID, ListingID: l.ID, Content: "  "}, KindValidation},
		{"bad type", SendMessageInput{ToUserID: b.ID, ListingID: l.ID, Content: "x", MessageType: "video"}, KindValidation},
		{"to self", SendMessageInput{ToUserID: a.ID, ListingID: l.ID, Content: "x"}, KindValidation},
		{"missing listing id", SendMessageInput{ToUserID: b.ID, Content: "x"}, KindValidation},
		{"unknown recipient", SendMessageInput{ToUserID: "ghost", ListingID: l.ID, Content: "x"}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.SendMessage(ctx, a.ID, tt.in)
			assertKind(t, err, tt.kind)
		})
	}
	assert.Equal(t, int64(2), env.count(t, &models.Message{}, ""))

	t.Run("deleted sender", func(t *testing.T) {
		require.NoError(t, env.db.Delete(&models.User{}, "id = ?", a.ID).Error)
		_, err := env.svc.SendMessage(ctx, a.ID, SendMessageInput{ToUserID: b.ID, ListingID: l.ID, Content: "Hallo?"})
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Equal(t, int64(2), env.count(t, &models.Message{}, ""))
	})
}

func TestConversationsSameTimestamp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.register(t, "Mia", "mia@example.com")
	sam := env.register(t, "Sam", "sam@example.com")
	sofa := env.listing(t, sam, "Sofa", 150)

	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	msgs := []models.Message{
		{ID: "00000000-0000-0000-0000-00000000000a", FromUserID: me.ID, ToUserID: sam.ID, ListingID: sofa.ID, Content: "erste", MessageType: models.MessageText, CreatedAt: at},
		{ID: "00000000-0000-0000-0000-00000000000c", FromUserID: sam.ID, ToUserID: me.ID, ListingID: sofa.ID, Content: "letzte", MessageType: models.MessageText, CreatedAt: at},
		{ID: "00000000-0000-0000-0000-00000000000b", FromUserID: me.ID, ToUserID: sam.ID, ListingID: sofa.ID, Content: "mittlere", MessageType: models.MessageText, CreatedAt: at},
	}
	require.NoError(t, env.db.Create(&msgs).Error)

	// 同時刻なら ID の大きい方を最新とみなす
	for i := 0; i < 5; i++ {
		convs, err := env.svc.Conversations(ctx, me.ID)
		require.NoError(t, err)
		require.Len(t, convs, 1)
		assert.Equal(t, "letzte", convs[0].LastMessage)
	}

	thread, err := env.svc.Thread(ctx, sofa.ID, me.ID, sam.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, []string{"erste", "mittlere", "letzte"}, []string{thread[0].Content, thread[1].Content, thread[2].Content})
}

func TestConversationsGroupsByCounterpartAndListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.register(t, "Mia", "mia@example.com")
	sam := env.register(t, "Sam", "sam@example.com")
	olga := env.register(t, "Olga", "olga@example.com")
	sofa := env.listing(t, sam, "Sofa", 150)
	lamp := env.listing(t, olga, "Lampe", 15)

	send := func(from, to *models.User, l *models.Listing, content string) {
		_, err := env.svc.SendMessage(ctx, from.ID, SendMessageInput{ToUserID: to.ID, ListingID: l.ID, Content: content})
		require.NoError(t, err)
	}
	send(me, sam, sofa, "Hallo Sam")
	send(me, olga, lamp, "Hallo Olga")
	send(sam, me, sofa, "Ja, noch verfügbar")
	send(olga, me, lamp, strings.Repeat("ä", 60))

	convs, err := env.svc.Conversations(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	// 最新の会話が先頭
	assert.Equal(t, olga.ID, convs[0].OtherUserID)
	assert.Equal(t, "Olga", convs[0].OtherUserName)
	assert.Equal(t, "Lampe", convs[0].ListingTitle)
	assert.Equal(t, strings.Repeat("ä", 50), convs[0].LastMessage)
	require.NotNil(t, convs[0].ListingImage)

	assert.Equal(t, sam.ID, convs[1].OtherUserID)
	assert.Equal(t, "Ja, noch verfügbar", convs[1].LastMessage)
	assert.True(t, convs[0].LastMessageTime.After(convs[1].LastMessageTime))

	// 同じ相手でも出品が違えば別の会話
	send(sam, me, lamp, "Die Lampe gefällt mir auch")
	convs, err = env.svc.Conversations(ctx, me.ID)
	require.NoError(t, err)
	assert.Len(t, convs, 3)
}

func TestConversationsFallbackForDeletedRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.register(t, "Mia", "mia@example.com")
	sam := env.register(t, "Sam", "sam@example.com")
	sofa := env.listing(t, sam, "Sofa", 150)

	_, err := env.svc.SendMessage(ctx, me.ID, SendMessageInput{ToUserID: sam.ID, ListingID: sofa.ID, Content: "Hallo"})
	require.NoError(t, err)
	require.NoError(t, env.db.Delete(&models.Listing{}, "id = ?", sofa.ID).Error)
	require.NoError(t, env.db.Delete(&models.User{}, "id = ?", sam.ID).Error)

	convs, err := env.svc.Conversations(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, deletedUserName, convs[0].OtherUserName)
	assert.Equal(t, deletedListingName, convs[0].ListingTitle)
	assert.Nil(t, convs[0].ListingImage)
	assert.Nil(t, convs[0].OtherUserImage)
}

func TestThreadAndUnread(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.register(t, "Anna", "anna@example.com")
	b := env.register(t, "Ben", "ben@example.com")
	c := env.register(t, "Cem", "cem@example.com")
	l := env.listing(t, b, "Sofa", 150)
	other := env.listing(t, b, "Tisch", 50)

	for _, m := range []struct {
		from, to *models.User
		listing  *models.Listing
		content  string
	}{
		{a, b, l, "1"},
		{b, a, l, "2"},
		{a, b, l, "3"},
		{a, b, other, "anderes Inserat"},
		{c, b, l, "fremder Thread"},
	} {
		_, err := env.svc.SendMessage(ctx, m.from.ID, SendMessageInput{ToUserID: m.to.ID, ListingID: m.listing.ID, Content: m.content})
		require.NoError(t, err)
	}

	thread, err := env.svc.Thread(ctx, l.ID, b.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{thread[0].Content, thread[1].Content, thread[2].Content})

	unread, err := env.svc.UnreadCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), unread)

	marked, err := env.svc.MarkThreadRead(ctx, l.ID, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	unread, err = env.svc.UnreadCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	// Aの未読 (Bからの1件) はそのまま
	unread, err = env.svc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}
