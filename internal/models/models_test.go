package models

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestUpsertUser(t *testing.T) {
	db := newTestDB(t)

	t.Run("creates new user", func(t *testing.T) {
		u, err := UpsertUser(db, User{Email: "amit@example.com", FirstName: "Amit"})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "Amit", u.FirstName)
	})

	t.Run("updates existing user by email", func(t *testing.T) {
		first, err := UpsertUser(db, User{Email: "priya@example.com", FirstName: "Priya"})
		require.NoError(t, err)

		second, err := UpsertUser(db, User{Email: "priya@example.com", FirstName: "Priya", LastName: "Sharma"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Sharma", second.LastName)

		var count int64
		require.NoError(t, db.Model(&User{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestChatHistory(t *testing.T) {
	db := newTestDB(t)
	const uid = "user-1"

	for i := 0; i < 6; i++ {
		role := ChatRoleUser
		if i%2 == 1 {
			role = ChatRoleAssistant
		}
		msg, err := AddChatMessage(db, uid, role, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
		// sqlite 时间精度有限，人为拉开 created_at
		require.NoError(t, db.Model(msg).Update("created_at", time.Now().Add(time.Duration(i)*time.Second)).Error)
	}

	t.Run("returns chronological order", func(t *testing.T) {
		msgs, err := GetChatHistory(db, uid, 50)
		require.NoError(t, err)
		require.Len(t, msgs, 6)
		assert.Equal(t, "message 0", msgs[0].Content)
		assert.Equal(t, "message 5", msgs[5].Content)
		for i := 1; i < len(msgs); i++ {
			assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt))
		}
	})

	t.Run("limit keeps the newest messages", func(t *testing.T) {
		msgs, err := GetChatHistory(db, uid, 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "message 4", msgs[0].Content)
		assert.Equal(t, "message 5", msgs[1].Content)
	})

	t.Run("scoped to one user", func(t *testing.T) {
		_, err := AddChatMessage(db, "user-2", ChatRoleUser, "other")
		require.NoError(t, err)

		msgs, err := GetChatHistory(db, uid, 50)
		require.NoError(t, err)
		assert.Len(t, msgs, 6)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		require.NoError(t, ClearChatHistory(db, uid))
		require.NoError(t, ClearChatHistory(db, uid))

		msgs, err := GetChatHistory(db, uid, 50)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestPreferences(t *testing.T) {
	db := newTestDB(t)

	t.Run("defaults when missing", func(t *testing.T) {
		pref, err := GetPreferences(db, "nobody")
		require.NoError(t, err)
		assert.True(t, pref.LocationSharing)
		assert.Equal(t, "en", pref.Language)
		assert.Equal(t, "[]", pref.EmergencyContactsJSON)

		var count int64
		require.NoError(t, db.Model(&UserPreference{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("upsert keeps one row per user", func(t *testing.T) {
		require.NoError(t, UpsertPreferences(db, &UserPreference{UserID: "u1", Language: "hi", LocationSharing: true}))
		require.NoError(t, UpsertPreferences(db, &UserPreference{UserID: "u1", Language: "en", LocationSharing: false}))

		var count int64
		require.NoError(t, db.Model(&UserPreference{}).Where("user_id = ?", "u1").Count(&count).Error)
		assert.EqualValues(t, 1, count)

		pref, err := GetPreferences(db, "u1")
		require.NoError(t, err)
		assert.Equal(t, "en", pref.Language)
		assert.False(t, pref.LocationSharing)
	})
}

func TestTipsPromptExcerpt(t *testing.T) {
	db := newTestDB(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		tip := &SafetyTip{
			Title:    fmt.Sprintf("Tip %d", i),
			Content:  fmt.Sprintf("Advice %d", i),
			Category: "General Safety",
		}
		require.NoError(t, CreateSafetyTip(db, nil, tip))
		require.NoError(t, db.Model(tip).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	out, err := TipsPromptExcerpt(context.Background(), db, nil, 2)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2, "excerpt capped at n tips")
	assert.Equal(t, "- Tip 0: Advice 0", lines[0])
	assert.Equal(t, "- Tip 1: Advice 1", lines[1])
}

func TestAlerts(t *testing.T) {
	db := newTestDB(t)

	t.Run("create defaults to active", func(t *testing.T) {
		alert := &SafetyAlert{Title: "Flood warning", Message: "Stay away from riverbanks", Severity: SeverityHigh}
		require.NoError(t, CreateAlert(db, alert))
		assert.NotEmpty(t, alert.ID)
		assert.True(t, alert.IsActive)
	})

	t.Run("active list excludes deactivated", func(t *testing.T) {
		stale := &SafetyAlert{Title: "Old roadworks", Message: "done", Severity: SeverityLow}
		require.NoError(t, CreateAlert(db, stale))
		require.NoError(t, db.Model(stale).Updates(map[string]any{
			"is_active":  true,
			"created_at": time.Now().Add(-30 * 24 * time.Hour),
		}).Error)

		n, err := DeactivateStaleAlerts(db, 7*24*time.Hour)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		alerts, err := GetActiveAlerts(db)
		require.NoError(t, err)
		for _, a := range alerts {
			assert.NotEqual(t, stale.ID, a.ID)
		}
	})
}

func TestSeed(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Seed(db))

	var tips, alerts, contacts int64
	require.NoError(t, db.Model(&SafetyTip{}).Count(&tips).Error)
	require.NoError(t, db.Model(&SafetyAlert{}).Count(&alerts).Error)
	require.NoError(t, db.Model(&EmergencyContact{}).Count(&contacts).Error)
	assert.EqualValues(t, 10, tips)
	assert.EqualValues(t, 5, alerts)
	assert.EqualValues(t, 8, contacts)

	// 再次播种应跳过
	require.NoError(t, Seed(db))
	require.NoError(t, db.Model(&SafetyTip{}).Count(&tips).Error)
	assert.EqualValues(t, 10, tips)
}
