package repositories

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func testSession() models.Session {
	sub := models.FreeSubscription()
	sub.Plan = models.PlanPremium
	sub.EmailsLimit = models.PremiumEmailLimit

	return models.Session{
		User:         &models.User{ID: 7, Username: "ada", Email: "ada@example.com"},
		Token:        "token-abc",
		Subscription: sub,
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextSequence(db, "favorites")
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}
	second, err := NextSequence(db, "favorites")
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}

	if first != 1 || second != 2 {
		t.Errorf("Expected 1 then 2, got %d then %d", first, second)
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("Expected error for unknown sequence table")
	}
}

func TestSessionRepository(t *testing.T) {
	t.Run("Load without login returns anonymous", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		session, err := repo.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if session.Authenticated() {
			t.Error("Expected anonymous session")
		}
		if session.Subscription.Plan != models.PlanFree {
			t.Errorf("Expected free plan, got %s", session.Subscription.Plan)
		}
	})

	t.Run("Save then Load round trips", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(testSession()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		session, err := repo.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !session.Authenticated() {
			t.Fatal("Expected authenticated session")
		}
		if session.User.Username != "ada" || session.Token != "token-abc" {
			t.Errorf("Unexpected session: %+v", session)
		}
		if session.Subscription.Plan != models.PlanPremium {
			t.Errorf("Expected premium plan, got %s", session.Subscription.Plan)
		}
	})

	t.Run("Save replaces previous login", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(testSession()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		next := testSession()
		next.User.Username = "grace"
		if err := repo.Save(next); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		session, err := repo.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if session.User.Username != "grace" {
			t.Errorf("Expected replaced session, got %s", session.User.Username)
		}
	})

	t.Run("Save rejects anonymous session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(models.AnonymousSession()); err == nil {
			t.Error("Expected error saving anonymous session")
		}
	})

	t.Run("Clear logs out", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(testSession()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		session, err := repo.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if session.Authenticated() {
			t.Error("Expected anonymous session after clear")
		}
	})

	t.Run("AddEmailsUsed advances counter", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(testSession()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := repo.AddEmailsUsed(3); err != nil {
			t.Fatalf("AddEmailsUsed failed: %v", err)
		}

		session, err := repo.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if session.Subscription.EmailsUsed != 3 {
			t.Errorf("Expected 3 emails used, got %d", session.Subscription.EmailsUsed)
		}
	})

	t.Run("AddEmailsUsed without session fails", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.AddEmailsUsed(1); err == nil {
			t.Error("Expected error without a session")
		}
	})

	t.Run("UpdateSubscription rewrites plan", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Save(testSession()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		sub, err := models.ActivatePlan(models.PlanPro, time.Now())
		if err != nil {
			t.Fatalf("ActivatePlan failed: %v", err)
		}
		if err := repo.UpdateSubscription(sub); err != nil {
			t.Fatalf("UpdateSubscription failed: %v", err)
		}

		session, err := repo.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if session.Subscription.Plan != models.PlanPro {
			t.Errorf("Expected pro plan, got %s", session.Subscription.Plan)
		}
		if session.Subscription.EmailsLimit != models.ProEmailLimit {
			t.Errorf("Expected pro limit, got %d", session.Subscription.EmailsLimit)
		}
		if session.Subscription.EndsAt == nil {
			t.Error("Expected plan window end")
		}
	})
}

func TestFavoriteRepository(t *testing.T) {
	program := models.Program{
		ID:           5,
		Name:         "Data Science",
		University:   models.University{Name: "TU Delft"},
		FieldOfStudy: "Computer Science",
		DegreeLevel:  "master",
	}

	t.Run("Add then Get round trips", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))

		if err := repo.Add(models.SnapshotProgram(0, program)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		favorite, err := repo.Get(5)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if favorite.Name() != "Data Science" || favorite.University() != "TU Delft" {
			t.Errorf("Unexpected snapshot: %s at %s", favorite.Name(), favorite.University())
		}
		if favorite.ID() == "" {
			t.Error("Expected generated ID")
		}
	})

	t.Run("duplicate add is rejected", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))

		if err := repo.Add(models.SnapshotProgram(0, program)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := repo.Add(models.SnapshotProgram(0, program)); err == nil {
			t.Error("Expected unique constraint error")
		}
	})

	t.Run("Remove reports prior state", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))

		if err := repo.Add(models.SnapshotProgram(0, program)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		removed, err := repo.Remove(5)
		if err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if !removed {
			t.Error("Expected removal to report true")
		}

		removed, err = repo.Remove(5)
		if err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if removed {
			t.Error("Expected second removal to report false")
		}
	})

	t.Run("All preserves insertion order", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))

		second := program
		second.ID = 6
		second.Name = "Philosophy"

		if err := repo.Add(models.SnapshotProgram(0, program)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := repo.Add(models.SnapshotProgram(0, second)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		favorites, err := repo.All()
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(favorites) != 2 {
			t.Fatalf("Expected 2 favorites, got %d", len(favorites))
		}
		if favorites[0].ProgramID() != 5 || favorites[1].ProgramID() != 6 {
			t.Errorf("Unexpected order: %d, %d", favorites[0].ProgramID(), favorites[1].ProgramID())
		}
	})

	t.Run("Clear removes everything", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))

		if err := repo.Add(models.SnapshotProgram(0, program)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected empty favorites, got %d", count)
		}
	})

	t.Run("invalid snapshot is rejected", func(t *testing.T) {
		repo := NewFavoriteRepository(setupTestDB(t))

		if err := repo.Add(models.NewFavorite(0, 0, "", "", "", "")); err == nil {
			t.Error("Expected validation error")
		}
	})
}

func TestEmailAccountRepository(t *testing.T) {
	t.Run("never linked provider is disconnected", func(t *testing.T) {
		repo := NewEmailAccountRepository(setupTestDB(t))

		account, err := repo.Get(models.ProviderGmail)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if account.Connected {
			t.Error("Expected disconnected account")
		}
	})

	t.Run("Upsert then Get round trips", func(t *testing.T) {
		repo := NewEmailAccountRepository(setupTestDB(t))

		err := repo.Upsert(models.EmailAccount{
			Provider:    models.ProviderGmail,
			Connected:   true,
			Email:       "ada@gmail.com",
			AccessToken: "token",
		})
		if err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		account, err := repo.Get(models.ProviderGmail)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !account.Connected || account.Email != "ada@gmail.com" {
			t.Errorf("Unexpected account: %+v", account)
		}
	})

	t.Run("ActiveProvider follows send order", func(t *testing.T) {
		repo := NewEmailAccountRepository(setupTestDB(t))

		if err := repo.Upsert(models.EmailAccount{Provider: models.ProviderOutlook, Connected: true, Email: "ada@outlook.com"}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		account, ok, err := repo.ActiveProvider()
		if err != nil {
			t.Fatalf("ActiveProvider failed: %v", err)
		}
		if !ok || account.Provider != models.ProviderOutlook {
			t.Errorf("Expected outlook active, got %+v ok=%v", account, ok)
		}

		if err := repo.Upsert(models.EmailAccount{Provider: models.ProviderGmail, Connected: true, Email: "ada@gmail.com"}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		account, ok, err = repo.ActiveProvider()
		if err != nil {
			t.Fatalf("ActiveProvider failed: %v", err)
		}
		if !ok || account.Provider != models.ProviderGmail {
			t.Errorf("Expected gmail to win send order, got %+v", account)
		}
	})

	t.Run("Disconnect drops token", func(t *testing.T) {
		repo := NewEmailAccountRepository(setupTestDB(t))

		if err := repo.Upsert(models.EmailAccount{Provider: models.ProviderGmail, Connected: true, AccessToken: "token"}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
		if err := repo.Disconnect(models.ProviderGmail); err != nil {
			t.Fatalf("Disconnect failed: %v", err)
		}

		account, err := repo.Get(models.ProviderGmail)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if account.Connected || account.AccessToken != "" {
			t.Errorf("Expected disconnected account, got %+v", account)
		}
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		repo := NewEmailAccountRepository(setupTestDB(t))

		if err := repo.Upsert(models.EmailAccount{Provider: "aol"}); err == nil {
			t.Error("Expected error for unknown provider")
		}
	})
}

func TestEmailHistoryRepository(t *testing.T) {
	t.Run("Append then All round trips", func(t *testing.T) {
		repo := NewEmailHistoryRepository(setupTestDB(t))

		record := models.NewEmailRecord(0, models.RecordSingle,
			[]string{"coord@uni.example"}, "Inquiry", "Hello")
		if err := repo.Append(record); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		records, err := repo.All()
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(records))
		}
		if records[0].Subject() != "Inquiry" || records[0].Count() != 1 {
			t.Errorf("Unexpected record: %+v", records[0])
		}
		if got := records[0].Recipients(); len(got) != 1 || got[0] != "coord@uni.example" {
			t.Errorf("Unexpected recipients: %v", got)
		}
	})

	t.Run("All is most recent first", func(t *testing.T) {
		repo := NewEmailHistoryRepository(setupTestDB(t))

		first := models.NewEmailRecord(0, models.RecordSingle, []string{"a@x.example"}, "First", "body")
		second := models.NewEmailRecord(0, models.RecordBulk, []string{"b@x.example", "c@x.example"}, "Second", "body")

		if err := repo.Append(first); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if err := repo.Append(second); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		records, err := repo.All()
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		if len(records) != 2 || records[0].Subject() != "Second" {
			t.Errorf("Expected newest first, got %v", records)
		}
	})

	t.Run("CountSince sums recipients", func(t *testing.T) {
		repo := NewEmailHistoryRepository(setupTestDB(t))

		record := models.NewEmailRecord(0, models.RecordBulk,
			[]string{"a@x.example", "b@x.example", "c@x.example"}, "Bulk", "body")
		if err := repo.Append(record); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		count, err := repo.CountSince(time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("CountSince failed: %v", err)
		}
		if count != 3 {
			t.Errorf("Expected 3 recipients, got %d", count)
		}
	})

	t.Run("empty record is rejected", func(t *testing.T) {
		repo := NewEmailHistoryRepository(setupTestDB(t))

		record := models.NewEmailRecord(0, models.RecordSingle, nil, "Subject", "body")
		if err := repo.Append(record); err == nil {
			t.Error("Expected validation error")
		}
	})
}

func TestSettingsRepository(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	t.Run("unset key reports missing", func(t *testing.T) {
		_, ok, err := repo.Get(SettingLanguage)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("Expected unset key")
		}
	})

	t.Run("Set then Get round trips", func(t *testing.T) {
		if err := repo.Set(SettingDefaultProvider, "outlook"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, ok, err := repo.Get(SettingDefaultProvider)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok || value != "outlook" {
			t.Errorf("Unexpected value: %q ok=%v", value, ok)
		}
	})

	t.Run("GetDefault falls back", func(t *testing.T) {
		value, err := repo.GetDefault(SettingLanguage, "en")
		if err != nil {
			t.Fatalf("GetDefault failed: %v", err)
		}
		if value != "en" {
			t.Errorf("Expected fallback, got %q", value)
		}
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		if err := repo.Set("", "x"); err == nil {
			t.Error("Expected error for empty key")
		}
	})
}
