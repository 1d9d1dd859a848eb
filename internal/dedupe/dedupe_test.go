package dedupe

import (
	"context"
	"testing"
	"time"

	"cinewire/internal/domain"
)

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Devara Review":              "devara",
		"devara review 2025":         "devara",
		"Devara Movie Review (2024)": "devara",
		"K.G.F: Chapter 2":           "k g f chapter 2",
		"Kalki 2898 AD":              "kalki 2898 ad",
		"  Pushpa   2  ":             "pushpa 2",
		"Devara Review and Rating":   "devara",
	}
	for raw, want := range cases {
		if got := NormalizeTitle(raw); got != want {
			t.Fatalf("%q: got %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeTitleCollapsesYearVariant(t *testing.T) {
	t.Parallel()

	a := NormalizeTitle("Devara Review")
	b := NormalizeTitle("devara review 2025")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
}

func TestKeyScopesByFamilyAndLanguage(t *testing.T) {
	t.Parallel()

	review := Key("Devara Review", "en", domain.FamilyReview)
	article := Key("Devara Review", "en", domain.FamilyArticle)
	telugu := Key("Devara Review", "te", domain.FamilyReview)

	if review == article {
		t.Fatal("families must produce distinct keys")
	}
	if review == telugu {
		t.Fatal("languages must produce distinct keys")
	}
	if review.NormalizedTitle != "devara" {
		t.Fatalf("normalized title: %q", review.NormalizedTitle)
	}
}

type fakeStore struct {
	known map[domain.IdentityKey]bool
}

func (s *fakeStore) Exists(_ context.Context, key domain.IdentityKey) (bool, error) {
	return s.known[key], nil
}

func (s *fakeStore) Save(context.Context, *domain.ContentRecord) error { return nil }

func (s *fakeStore) ExpireTopStories(context.Context, time.Time) (int, error) { return 0, nil }

func (s *fakeStore) Close() error { return nil }

func TestShouldSkipUsesNormalizedKey(t *testing.T) {
	t.Parallel()

	d := New(&fakeStore{known: map[domain.IdentityKey]bool{
		{NormalizedTitle: "devara", LanguageCode: "en", Family: domain.FamilyReview}: true,
	}})

	skip, err := d.ShouldSkip(context.Background(), "devara review 2025", "en", domain.FamilyReview)
	if err != nil {
		t.Fatalf("ShouldSkip error: %v", err)
	}
	if !skip {
		t.Fatal("expected duplicate to be skipped")
	}

	skip, err = d.ShouldSkip(context.Background(), "Pushpa 2", "en", domain.FamilyReview)
	if err != nil {
		t.Fatalf("ShouldSkip error: %v", err)
	}
	if skip {
		t.Fatal("fresh title must proceed")
	}
}
