package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/services"
	"github.com/uniworld/cli/internal/shared"
)

// fakeCatalog is a local double for [services.Catalog]. It records the
// program keys coordinator fetches are issued with.
type fakeCatalog struct {
	UniversitiesFn  func(ctx context.Context) ([]models.University, error)
	ProgramsFn      func(ctx context.Context) ([]models.Program, error)
	CountriesFn     func(ctx context.Context) ([]string, error)
	FieldsFn        func(ctx context.Context) ([]string, error)
	CoordinatorsFn  func(ctx context.Context, programID string) ([]models.Coordinator, error)
	CoordinatorHits []string
}

func (f *fakeCatalog) Universities(ctx context.Context) ([]models.University, error) {
	if f.UniversitiesFn != nil {
		return f.UniversitiesFn(ctx)
	}
	return []models.University{}, nil
}

func (f *fakeCatalog) Programs(ctx context.Context) ([]models.Program, error) {
	if f.ProgramsFn != nil {
		return f.ProgramsFn(ctx)
	}
	return []models.Program{}, nil
}

func (f *fakeCatalog) Countries(ctx context.Context) ([]string, error) {
	if f.CountriesFn != nil {
		return f.CountriesFn(ctx)
	}
	return []string{}, nil
}

func (f *fakeCatalog) FieldsOfStudy(ctx context.Context) ([]string, error) {
	if f.FieldsFn != nil {
		return f.FieldsFn(ctx)
	}
	return []string{}, nil
}

func (f *fakeCatalog) Coordinators(ctx context.Context, programID string) ([]models.Coordinator, error) {
	f.CoordinatorHits = append(f.CoordinatorHits, programID)
	if f.CoordinatorsFn != nil {
		return f.CoordinatorsFn(ctx, programID)
	}
	return []models.Coordinator{}, nil
}

// fakeMailer is a local double for [services.Mailer]. It records the
// requests it receives.
type fakeMailer struct {
	SendFn     func(ctx context.Context, req services.SendEmailRequest) (*services.EmailLog, error)
	SendBulkFn func(ctx context.Context, req services.BulkEmailRequest) (*services.BulkEmailLog, error)
	Sent       []services.SendEmailRequest
	BulkSent   []services.BulkEmailRequest
}

func (f *fakeMailer) SendEmail(ctx context.Context, req services.SendEmailRequest) (*services.EmailLog, error) {
	f.Sent = append(f.Sent, req)
	if f.SendFn != nil {
		return f.SendFn(ctx, req)
	}
	return &services.EmailLog{ID: "email_1", Status: "sent"}, nil
}

func (f *fakeMailer) SendBulkEmail(ctx context.Context, req services.BulkEmailRequest) (*services.BulkEmailLog, error) {
	f.BulkSent = append(f.BulkSent, req)
	if f.SendBulkFn != nil {
		return f.SendBulkFn(ctx, req)
	}
	return &services.BulkEmailLog{ID: "bulk_email_1", Status: "sent"}, nil
}

type fakeSessionStore struct {
	session models.Session
	loadErr error
	used    int
}

func (f *fakeSessionStore) Load() (models.Session, error) {
	return f.session, f.loadErr
}

func (f *fakeSessionStore) AddEmailsUsed(n int) error {
	f.used += n
	return nil
}

type fakeAccountStore struct {
	account models.EmailAccount
	linked  bool
}

func (f *fakeAccountStore) ActiveProvider() (models.EmailAccount, bool, error) {
	return f.account, f.linked, nil
}

type fakeHistoryStore struct {
	records []*models.EmailRecord
}

func (f *fakeHistoryStore) Append(record *models.EmailRecord) error {
	f.records = append(f.records, record)
	return nil
}

func premiumSession(used int) models.Session {
	return models.Session{
		User:  &models.User{ID: 1, Username: "ada", Email: "ada@example.com"},
		Token: "token",
		Subscription: models.Subscription{
			Plan:        models.PlanPremium,
			Status:      "active",
			EmailsUsed:  used,
			EmailsLimit: models.PremiumEmailLimit,
		},
	}
}

func TestCanUseEmailFeature(t *testing.T) {
	t.Run("anonymous is refused", func(t *testing.T) {
		err := CanUseEmailFeature(models.AnonymousSession(), 1)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("Expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("free plan is refused", func(t *testing.T) {
		session := premiumSession(0)
		session.Subscription = models.FreeSubscription()

		err := CanUseEmailFeature(session, 1)
		if !errors.Is(err, shared.ErrUpgradeRequired) {
			t.Errorf("Expected ErrUpgradeRequired, got %v", err)
		}
	})

	t.Run("quota exhaustion is refused", func(t *testing.T) {
		err := CanUseEmailFeature(premiumSession(models.PremiumEmailLimit), 1)
		if !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Errorf("Expected ErrQuotaExceeded, got %v", err)
		}
	})

	t.Run("count larger than remainder is refused", func(t *testing.T) {
		err := CanUseEmailFeature(premiumSession(models.PremiumEmailLimit-2), 3)
		if !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Errorf("Expected ErrQuotaExceeded, got %v", err)
		}
	})

	t.Run("count equal to remainder passes", func(t *testing.T) {
		if err := CanUseEmailFeature(premiumSession(models.PremiumEmailLimit-3), 3); err != nil {
			t.Errorf("Expected nil, got %v", err)
		}
	})
}

func TestSendSingle(t *testing.T) {
	ctx := context.Background()

	newEngine := func(sessions *fakeSessionStore, accounts *fakeAccountStore, mailer *fakeMailer, history *fakeHistoryStore) *OutreachEngine {
		return NewOutreachEngine(OutreachOpts{
			Catalog:  &fakeCatalog{},
			Mailer:   mailer,
			Sessions: sessions,
			Accounts: accounts,
			History:  history,
		})
	}

	opts := SingleSendOpts{
		ProgramID:        "TUD_CS_01",
		CoordinatorEmail: "coord@uni.example",
		Subject:          "Inquiry",
		Body:             "Hello",
	}

	t.Run("records history and usage on success", func(t *testing.T) {
		sessions := &fakeSessionStore{session: premiumSession(0)}
		accounts := &fakeAccountStore{
			account: models.EmailAccount{Provider: models.ProviderGmail, Connected: true},
			linked:  true,
		}
		mailer := &fakeMailer{}
		history := &fakeHistoryStore{}

		engine := newEngine(sessions, accounts, mailer, history)

		result, err := engine.SendSingle(ctx, nil, opts)
		if err != nil {
			t.Fatalf("SendSingle failed: %v", err)
		}
		if result.Provider != models.ProviderGmail {
			t.Errorf("Expected gmail provider, got %s", result.Provider)
		}
		if len(mailer.Sent) != 1 || mailer.Sent[0].CoordinatorID != "coord@uni.example" {
			t.Errorf("Unexpected send: %+v", mailer.Sent)
		}
		if mailer.Sent[0].ProgramID != "TUD_CS_01" {
			t.Errorf("Expected program key on wire, got %q", mailer.Sent[0].ProgramID)
		}
		if mailer.Sent[0].Username != "ada" {
			t.Errorf("Expected username on wire, got %q", mailer.Sent[0].Username)
		}
		if len(history.records) != 1 || history.records[0].Kind() != models.RecordSingle {
			t.Errorf("Expected single history record, got %v", history.records)
		}
		if sessions.used != 1 {
			t.Errorf("Expected usage counter advanced by 1, got %d", sessions.used)
		}
	})

	t.Run("unlinked provider is refused before sending", func(t *testing.T) {
		sessions := &fakeSessionStore{session: premiumSession(0)}
		mailer := &fakeMailer{}
		history := &fakeHistoryStore{}

		engine := newEngine(sessions, &fakeAccountStore{}, mailer, history)

		_, err := engine.SendSingle(ctx, nil, opts)
		if !errors.Is(err, shared.ErrProviderNotLinked) {
			t.Errorf("Expected ErrProviderNotLinked, got %v", err)
		}
		if len(mailer.Sent) != 0 {
			t.Error("Expected no send attempt")
		}
	})

	t.Run("delivery failure leaves no trace", func(t *testing.T) {
		sessions := &fakeSessionStore{session: premiumSession(0)}
		accounts := &fakeAccountStore{
			account: models.EmailAccount{Provider: models.ProviderGmail, Connected: true},
			linked:  true,
		}
		mailer := &fakeMailer{
			SendFn: func(ctx context.Context, req services.SendEmailRequest) (*services.EmailLog, error) {
				return nil, fmt.Errorf("provider rejected message")
			},
		}
		history := &fakeHistoryStore{}

		engine := newEngine(sessions, accounts, mailer, history)

		if _, err := engine.SendSingle(ctx, nil, opts); err == nil {
			t.Fatal("Expected send error")
		}
		if len(history.records) != 0 {
			t.Error("Expected no history record after failure")
		}
		if sessions.used != 0 {
			t.Error("Expected usage counter untouched after failure")
		}
	})

	t.Run("quota is checked before send", func(t *testing.T) {
		sessions := &fakeSessionStore{session: premiumSession(models.PremiumEmailLimit)}
		accounts := &fakeAccountStore{
			account: models.EmailAccount{Provider: models.ProviderGmail, Connected: true},
			linked:  true,
		}
		mailer := &fakeMailer{}

		engine := newEngine(sessions, accounts, mailer, &fakeHistoryStore{})

		_, err := engine.SendSingle(ctx, nil, opts)
		if !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Errorf("Expected ErrQuotaExceeded, got %v", err)
		}
		if len(mailer.Sent) != 0 {
			t.Error("Expected no send attempt")
		}
	})
}

func TestSendBulk(t *testing.T) {
	ctx := context.Background()

	coordinatorsFor := func(counts map[string]int) func(ctx context.Context, programID string) ([]models.Coordinator, error) {
		return func(ctx context.Context, programID string) ([]models.Coordinator, error) {
			n := counts[programID]
			coordinators := make([]models.Coordinator, n)
			for i := range coordinators {
				coordinators[i] = models.Coordinator{
					ID:    i + 1,
					Name:  fmt.Sprintf("Coordinator %d", i),
					Email: fmt.Sprintf("c%d.%s@uni.example", i, programID),
				}
			}
			return coordinators, nil
		}
	}

	selection := []models.Program{
		{ID: 3, ProgramID: "KTH_EE_03", Name: "Electrical Engineering"},
		{ID: 1, ProgramID: "LMU_PHY_01", Name: "Physics"},
	}

	t.Run("aggregates coordinators in selection order", func(t *testing.T) {
		catalog := &fakeCatalog{CoordinatorsFn: coordinatorsFor(map[string]int{"KTH_EE_03": 2, "LMU_PHY_01": 1})}
		sessions := &fakeSessionStore{session: premiumSession(0)}
		accounts := &fakeAccountStore{
			account: models.EmailAccount{Provider: models.ProviderOutlook, Connected: true},
			linked:  true,
		}
		mailer := &fakeMailer{}
		history := &fakeHistoryStore{}

		engine := NewOutreachEngine(OutreachOpts{
			Catalog: catalog, Mailer: mailer,
			Sessions: sessions, Accounts: accounts, History: history,
		})

		result, err := engine.SendBulk(ctx, nil, selection, "Subject", "Body")
		if err != nil {
			t.Fatalf("SendBulk failed: %v", err)
		}
		if result.TotalCoordinators != 3 {
			t.Errorf("Expected 3 recipients, got %d", result.TotalCoordinators)
		}
		if len(catalog.CoordinatorHits) != 2 || catalog.CoordinatorHits[0] != "KTH_EE_03" || catalog.CoordinatorHits[1] != "LMU_PHY_01" {
			t.Errorf("Expected fetches keyed by program key in order, got %v", catalog.CoordinatorHits)
		}
		if len(mailer.BulkSent) != 1 {
			t.Fatalf("Expected one bulk send, got %d", len(mailer.BulkSent))
		}
		sent := mailer.BulkSent[0]
		if sent.EmailProvider != "outlook" {
			t.Errorf("Expected outlook provider, got %q", sent.EmailProvider)
		}
		if len(sent.Programs) != 2 || sent.Programs[0].ID != "KTH_EE_03" || sent.Programs[0].CoordinatorsCount != 2 {
			t.Errorf("Unexpected program payload: %+v", sent.Programs)
		}
		if sessions.used != 3 {
			t.Errorf("Expected usage advanced by 3, got %d", sessions.used)
		}
		if len(history.records) != 1 || history.records[0].Kind() != models.RecordBulk {
			t.Fatalf("Expected bulk history record, got %v", history.records)
		}
		if history.records[0].Count() != 3 {
			t.Errorf("Expected 3 recipients recorded, got %d", history.records[0].Count())
		}
	})

	t.Run("batch overrunning quota sends nothing", func(t *testing.T) {
		catalog := &fakeCatalog{CoordinatorsFn: coordinatorsFor(map[string]int{"KTH_EE_03": 2, "LMU_PHY_01": 2})}
		sessions := &fakeSessionStore{session: premiumSession(models.PremiumEmailLimit - 3)}
		accounts := &fakeAccountStore{
			account: models.EmailAccount{Provider: models.ProviderGmail, Connected: true},
			linked:  true,
		}
		mailer := &fakeMailer{}

		engine := NewOutreachEngine(OutreachOpts{
			Catalog: catalog, Mailer: mailer,
			Sessions: sessions, Accounts: accounts, History: &fakeHistoryStore{},
		})

		_, err := engine.SendBulk(ctx, nil, selection, "Subject", "Body")
		if !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Errorf("Expected ErrQuotaExceeded, got %v", err)
		}
		if len(mailer.BulkSent) != 0 {
			t.Error("Expected no partial send")
		}
		if sessions.used != 0 {
			t.Error("Expected usage counter untouched")
		}
	})

	t.Run("empty selection is refused", func(t *testing.T) {
		engine := NewOutreachEngine(OutreachOpts{
			Catalog: &fakeCatalog{}, Mailer: &fakeMailer{},
			Sessions: &fakeSessionStore{session: premiumSession(0)},
			Accounts: &fakeAccountStore{linked: true},
			History:  &fakeHistoryStore{},
		})

		_, err := engine.SendBulk(ctx, nil, nil, "Subject", "Body")
		if !errors.Is(err, shared.ErrEmptySelection) {
			t.Errorf("Expected ErrEmptySelection, got %v", err)
		}
	})

	t.Run("coordinator fetch failure aborts", func(t *testing.T) {
		catalog := &fakeCatalog{
			CoordinatorsFn: func(ctx context.Context, programID string) ([]models.Coordinator, error) {
				return nil, shared.ErrCoordinatorNotFound
			},
		}
		mailer := &fakeMailer{}

		engine := NewOutreachEngine(OutreachOpts{
			Catalog: catalog, Mailer: mailer,
			Sessions: &fakeSessionStore{session: premiumSession(0)},
			Accounts: &fakeAccountStore{account: models.EmailAccount{Provider: models.ProviderGmail, Connected: true}, linked: true},
			History:  &fakeHistoryStore{},
		})

		_, err := engine.SendBulk(ctx, nil, selection[:1], "Subject", "Body")
		if !errors.Is(err, shared.ErrCoordinatorNotFound) {
			t.Errorf("Expected ErrCoordinatorNotFound, got %v", err)
		}
		if len(mailer.BulkSent) != 0 {
			t.Error("Expected no send after fetch failure")
		}
	})

	t.Run("coordinators without email are skipped", func(t *testing.T) {
		catalog := &fakeCatalog{
			CoordinatorsFn: func(ctx context.Context, programID string) ([]models.Coordinator, error) {
				return []models.Coordinator{
					{ID: 1, Name: "Reachable", Email: "reachable@uni.example"},
					{ID: 2, Name: "No Address"},
					{ID: 3, Name: "Also Reachable", Email: "also@uni.example"},
				}, nil
			},
		}
		sessions := &fakeSessionStore{session: premiumSession(0)}
		mailer := &fakeMailer{}
		history := &fakeHistoryStore{}

		engine := NewOutreachEngine(OutreachOpts{
			Catalog: catalog, Mailer: mailer,
			Sessions: sessions,
			Accounts: &fakeAccountStore{account: models.EmailAccount{Provider: models.ProviderGmail, Connected: true}, linked: true},
			History:  history,
		})

		result, err := engine.SendBulk(ctx, nil, selection[:1], "Subject", "Body")
		if err != nil {
			t.Fatalf("SendBulk failed: %v", err)
		}
		if result.TotalCoordinators != 2 {
			t.Errorf("Expected 2 reachable recipients, got %d", result.TotalCoordinators)
		}
		for _, recipient := range result.Recipients {
			if recipient == "" {
				t.Error("Expected no empty recipient address")
			}
		}
		if mailer.BulkSent[0].Programs[0].CoordinatorsCount != 2 {
			t.Errorf("Expected reachable count on wire, got %d", mailer.BulkSent[0].Programs[0].CoordinatorsCount)
		}
		if sessions.used != 2 {
			t.Errorf("Expected usage advanced by reachable count, got %d", sessions.used)
		}
		if history.records[0].Count() != 2 {
			t.Errorf("Expected 2 recipients recorded, got %d", history.records[0].Count())
		}
	})

	t.Run("no reachable coordinator refuses the batch", func(t *testing.T) {
		catalog := &fakeCatalog{
			CoordinatorsFn: func(ctx context.Context, programID string) ([]models.Coordinator, error) {
				return []models.Coordinator{{ID: 1, Name: "No Address"}}, nil
			},
		}
		mailer := &fakeMailer{}

		engine := NewOutreachEngine(OutreachOpts{
			Catalog: catalog, Mailer: mailer,
			Sessions: &fakeSessionStore{session: premiumSession(0)},
			Accounts: &fakeAccountStore{account: models.EmailAccount{Provider: models.ProviderGmail, Connected: true}, linked: true},
			History:  &fakeHistoryStore{},
		})

		_, err := engine.SendBulk(ctx, nil, selection[:1], "Subject", "Body")
		if !errors.Is(err, shared.ErrCoordinatorNotFound) {
			t.Errorf("Expected ErrCoordinatorNotFound, got %v", err)
		}
		if len(mailer.BulkSent) != 0 {
			t.Error("Expected no send attempt")
		}
	})
}

func TestCatalogLoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("loads all four endpoints", func(t *testing.T) {
		catalog := &fakeCatalog{
			UniversitiesFn: func(ctx context.Context) ([]models.University, error) {
				return []models.University{{ID: 1, Name: "LMU Munich"}}, nil
			},
			ProgramsFn: func(ctx context.Context) ([]models.Program, error) {
				return []models.Program{{ID: 1, Name: "Physics"}}, nil
			},
			CountriesFn: func(ctx context.Context) ([]string, error) {
				return []string{"Germany"}, nil
			},
			FieldsFn: func(ctx context.Context) ([]string, error) {
				return []string{"Physics"}, nil
			},
		}

		engine := NewCatalogEngine(catalog)

		result, err := engine.LoadAll(ctx, nil)
		if err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
		if len(result.Programs) != 1 || len(result.Universities) != 1 {
			t.Errorf("Unexpected catalog: %+v", result)
		}
		if len(result.Errors) != 0 {
			t.Errorf("Expected no endpoint errors, got %v", result.Errors)
		}
	})

	t.Run("filter failure does not abort", func(t *testing.T) {
		catalog := &fakeCatalog{
			ProgramsFn: func(ctx context.Context) ([]models.Program, error) {
				return []models.Program{{ID: 1, Name: "Physics"}}, nil
			},
			CountriesFn: func(ctx context.Context) ([]string, error) {
				return nil, fmt.Errorf("countries endpoint down")
			},
		}

		engine := NewCatalogEngine(catalog)

		result, err := engine.LoadAll(ctx, nil)
		if err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
		if len(result.Programs) != 1 {
			t.Error("Expected programs despite filter failure")
		}
		if len(result.Errors) != 1 || result.Errors[0].Endpoint != "countries" {
			t.Errorf("Expected countries error recorded, got %v", result.Errors)
		}
	})

	t.Run("program failure aborts", func(t *testing.T) {
		catalog := &fakeCatalog{
			ProgramsFn: func(ctx context.Context) ([]models.Program, error) {
				return nil, fmt.Errorf("programs endpoint down")
			},
		}

		engine := NewCatalogEngine(catalog)

		_, err := engine.LoadAll(ctx, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("progress channel never blocks", func(t *testing.T) {
		catalog := &fakeCatalog{}
		engine := NewCatalogEngine(catalog)

		// Unbuffered channel with no reader; sends must be dropped.
		progress := make(chan ProgressUpdate)
		if _, err := engine.LoadAll(ctx, progress); err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
	})
}

func TestCatalogHelpers(t *testing.T) {
	catalog := &Catalog{
		Universities: []models.University{{Name: "Uppsala"}, {Name: "Bologna"}},
		Programs:     []models.Program{{ID: 4, Name: "Law"}},
	}

	names := catalog.UniversityNames()
	if len(names) != 2 || names[0] != "Bologna" {
		t.Errorf("Expected sorted names, got %v", names)
	}

	if _, ok := catalog.ProgramByID(4); !ok {
		t.Error("Expected program 4 to be found")
	}
	if _, ok := catalog.ProgramByID(99); ok {
		t.Error("Expected program 99 to be missing")
	}
}

func TestPager(t *testing.T) {
	t.Run("reveals in chunks", func(t *testing.T) {
		pager := NewPager(25)

		if pager.Shown() != 10 {
			t.Errorf("Expected first chunk of 10, got %d", pager.Shown())
		}
		if !pager.HasMore() {
			t.Error("Expected more to reveal")
		}

		pager.Advance()
		if pager.Shown() != 20 {
			t.Errorf("Expected 20 shown, got %d", pager.Shown())
		}

		pager.Advance()
		if pager.Shown() != 25 || pager.HasMore() {
			t.Errorf("Expected all 25 shown, got %d", pager.Shown())
		}

		pager.Advance()
		if pager.Shown() != 25 {
			t.Errorf("Expected advancing past end to be a no-op, got %d", pager.Shown())
		}
	})

	t.Run("short list shows everything", func(t *testing.T) {
		pager := NewPager(4)
		if pager.Shown() != 4 || pager.HasMore() {
			t.Errorf("Expected 4 shown and no more, got %d", pager.Shown())
		}
	})

	t.Run("reset rebinds", func(t *testing.T) {
		pager := NewPager(25)
		pager.Advance()
		pager.Reset(7)

		if pager.Shown() != 7 || pager.Total() != 7 {
			t.Errorf("Expected reset to 7, got %d of %d", pager.Shown(), pager.Total())
		}
	})
}

func TestSearchPager(t *testing.T) {
	results := make([]models.Program, 23)
	for i := range results {
		results[i] = models.Program{ID: i + 1, Name: fmt.Sprintf("Program %d", i+1)}
	}

	t.Run("pages accumulate without re-showing", func(t *testing.T) {
		pager := NewSearchPager(results)

		if pager.Page() != 0 || len(pager.Shown()) != 0 {
			t.Error("Expected nothing revealed before the first page")
		}

		first := pager.NextPage()
		if len(first) != 10 || first[0].ID != 1 {
			t.Errorf("Unexpected first page: %d items", len(first))
		}
		if pager.Page() != 1 || len(pager.Shown()) != 10 {
			t.Errorf("Expected running counter 1 and 10 shown, got %d and %d", pager.Page(), len(pager.Shown()))
		}

		second := pager.NextPage()
		if len(second) != 10 || second[0].ID != 11 {
			t.Errorf("Expected second page to start after the first, got ID %d", second[0].ID)
		}
		if shown := pager.Shown(); len(shown) != 20 || shown[0].ID != 1 {
			t.Errorf("Expected cumulative reveal, got %d items", len(shown))
		}

		third := pager.NextPage()
		if len(third) != 3 || pager.HasMore() {
			t.Errorf("Expected final partial page of 3, got %d", len(third))
		}
		if pager.NextPage() != nil || pager.Page() != 3 {
			t.Error("Expected paging past the end to be a no-op")
		}
	})

	t.Run("empty result set has no pages", func(t *testing.T) {
		pager := NewSearchPager(nil)
		if pager.HasMore() || pager.NextPage() != nil || pager.Total() != 0 {
			t.Error("Expected no pages for an empty result set")
		}
	})
}

func TestSelection(t *testing.T) {
	selection := NewSelection()

	if on := selection.Toggle(3); !on {
		t.Error("Expected toggle to select")
	}
	if on := selection.Toggle(5); !on {
		t.Error("Expected toggle to select")
	}
	if on := selection.Toggle(3); on {
		t.Error("Expected second toggle to unselect")
	}

	if selection.Count() != 1 || !selection.Has(5) {
		t.Errorf("Unexpected selection state: %v", selection.IDs())
	}

	selection.SelectAll([]int{5, 7, 9})
	if ids := selection.IDs(); len(ids) != 3 || ids[0] != 5 || ids[2] != 9 {
		t.Errorf("Expected selection order preserved, got %v", ids)
	}

	selection.Clear()
	if selection.Count() != 0 {
		t.Error("Expected empty selection after clear")
	}
}

func TestToggleFavorite(t *testing.T) {
	program := models.Program{
		ID:         8,
		Name:       "Economics",
		University: models.University{Name: "Bocconi"},
	}

	store := &fakeFavoriteStore{set: make(map[int]*models.Favorite)}

	on, err := ToggleFavorite(store, program)
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if !on {
		t.Error("Expected program to be favorited")
	}
	if store.set[8] == nil || store.set[8].University() != "Bocconi" {
		t.Errorf("Expected snapshot stored, got %v", store.set[8])
	}

	on, err = ToggleFavorite(store, program)
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if on || store.set[8] != nil {
		t.Error("Expected program to be unfavorited")
	}
}

type fakeFavoriteStore struct {
	set map[int]*models.Favorite
}

func (f *fakeFavoriteStore) Add(favorite *models.Favorite) error {
	f.set[favorite.ProgramID()] = favorite
	return nil
}

func (f *fakeFavoriteStore) Remove(programID int) (bool, error) {
	if f.set[programID] == nil {
		return false, nil
	}
	delete(f.set, programID)
	return true, nil
}

func (f *fakeFavoriteStore) Exists(programID int) (bool, error) {
	return f.set[programID] != nil, nil
}

func TestTemplates(t *testing.T) {
	t.Run("placeholders are filled", func(t *testing.T) {
		body, ok := RenderTemplate(TemplateInquiry, "Data Science", "TU Delft")
		if !ok {
			t.Fatal("Expected inquiry template")
		}
		if !strings.Contains(body, "Data Science program at TU Delft") {
			t.Errorf("Expected placeholders filled, got %q", body[:80])
		}
		if !strings.Contains(body, "[Your Name]") {
			t.Error("Expected sender placeholder preserved")
		}
	})

	t.Run("every kind has a body", func(t *testing.T) {
		for _, kind := range TemplateKinds {
			if _, ok := Template(kind); !ok {
				t.Errorf("Missing template for %s", kind)
			}
		}
	})

	t.Run("unknown kind reports missing", func(t *testing.T) {
		if _, ok := Template(TemplateKind("followup")); ok {
			t.Error("Expected unknown kind to be missing")
		}
	})
}
