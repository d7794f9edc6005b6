package services

import (
	"errors"
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/latestcomment/go-debate-board/internal/models"
	"go.uber.org/zap"
)

func newDebateService(t *testing.T) *DebateService {
	return NewDebateService(newTestClient(t), zap.NewNop())
}

func openDebate(t *testing.T, s *DebateService, creatorID uint, side models.Side) models.Debate {
	t.Helper()
	debate, err := s.CreateDebate(creatorID, CreateDebateInput{
		Title:    "Should remote work replace offices entirely?",
		Category: "society",
		Side:     side,
	})
	if err != nil {
		t.Fatal(err)
	}
	return debate
}

func TestCreateDebateValidation(t *testing.T) {
	s := newDebateService(t)
	user := createTestUser(t, s.db, "alice")

	tests := []struct {
		name string
		in   CreateDebateInput
	}{
		{
			name: "title too short",
			in:   CreateDebateInput{Title: "Too short", Category: "tech", Side: models.SidePro},
		},
		{
			name: "missing category",
			in:   CreateDebateInput{Title: "A perfectly valid debate title", Side: models.SidePro},
		},
		{
			name: "invalid side",
			in:   CreateDebateInput{Title: "A perfectly valid debate title", Category: "tech", Side: "maybe"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateDebate(user.ID, tt.in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateDebateDefaults(t *testing.T) {
	s := newDebateService(t)
	user := createTestUser(t, s.db, "alice")

	debate := openDebate(t, s, user.ID, models.SidePro)

	assert.Equal(t, models.StatusWaiting, debate.Status)
	assert.Equal(t, user.ID, *debate.ProParticipantID)
	assert.Equal(t, (*uint)(nil), debate.ConParticipantID)
	assert.Equal(t, 24, debate.TimeLimitHours)
	assert.Equal(t, 0, debate.Views)
	assert.Equal(t, (*time.Time)(nil), debate.CurrentDeadline)
}

func TestJoinDebateStartsWhenFull(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")

	debate := openDebate(t, s, alice.ID, models.SidePro)

	if err := s.JoinDebate(debate.ID, bob.ID, models.SideCon); err != nil {
		t.Fatal(err)
	}

	got, err := s.db.Debate.Get(debate.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, models.StatusOngoing, got.Status)
	assert.Equal(t, models.SidePro, got.CurrentTurn)
	assert.Equal(t, 1, got.CurrentRound)
	assert.Equal(t, bob.ID, *got.ConParticipantID)
	if got.StartedAt == nil || got.CurrentDeadline == nil {
		t.Fatal("expected started_at and current_deadline to be set")
	}
	wantDeadline := got.StartedAt.Add(24 * time.Hour)
	if !got.CurrentDeadline.Equal(wantDeadline) {
		t.Fatalf("deadline = %v, want %v", got.CurrentDeadline, wantDeadline)
	}
}

func TestJoinDebateFailures(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")
	carol := createTestUser(t, s.db, "carol")

	debate := openDebate(t, s, alice.ID, models.SidePro)

	if err := s.JoinDebate(debate.ID, bob.ID, "sideways"); !errors.Is(err, ErrValidation) {
		t.Fatalf("invalid side: expected ErrValidation, got %v", err)
	}
	if err := s.JoinDebate(9999, bob.ID, models.SideCon); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing debate: expected ErrNotFound, got %v", err)
	}
	if err := s.JoinDebate(debate.ID, bob.ID, models.SidePro); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("taken slot: expected ErrSlotTaken, got %v", err)
	}

	if err := s.JoinDebate(debate.ID, bob.ID, models.SideCon); err != nil {
		t.Fatal(err)
	}
	// Debate is ongoing now, no further joins.
	if err := s.JoinDebate(debate.ID, carol.ID, models.SideCon); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("ongoing debate: expected ErrInvalidState, got %v", err)
	}
}

func TestJoinDebateRaceOneWinner(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")
	carol := createTestUser(t, s.db, "carol")

	debate := openDebate(t, s, alice.ID, models.SidePro)

	// The slot claim is a conditional update: the second claim for the same
	// side sees a non-empty slot no matter how the reads interleaved.
	won, err := s.db.Debate.FillSlot(debate.ID, models.SideCon, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	lost, err := s.db.Debate.FillSlot(debate.ID, models.SideCon, carol.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, true, won)
	assert.Equal(t, false, lost)

	got, err := s.db.Debate.Get(debate.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, bob.ID, *got.ConParticipantID)
}

// Walks the full lifecycle: waiting -> ongoing -> three rounds of alternating
// arguments -> judging.
func TestDebateLifecycle(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")

	debate, err := s.CreateDebate(alice.ID, CreateDebateInput{
		Title:    "Should remote work replace offices entirely?",
		Category: "society",
		Side:     models.SidePro,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.JoinDebate(debate.ID, bob.ID, models.SideCon); err != nil {
		t.Fatal(err)
	}

	for round := 1; round <= models.MaxRounds; round++ {
		// Con may not speak out of turn, participant or not.
		if err := s.AddArgument(debate.ID, bob.ID, "out of turn", ""); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("round %d: expected ErrUnauthorized for con, got %v", round, err)
		}

		if err := s.AddArgument(debate.ID, alice.ID, "pro argument", ""); err != nil {
			t.Fatal(err)
		}
		got, _ := s.db.Debate.Get(debate.ID)
		assert.Equal(t, models.SideCon, got.CurrentTurn)
		assert.Equal(t, round, got.CurrentRound) // pro alone never advances the round

		if err := s.AddArgument(debate.ID, bob.ID, "con argument", ""); err != nil {
			t.Fatal(err)
		}
		got, _ = s.db.Debate.Get(debate.ID)
		if round < models.MaxRounds {
			assert.Equal(t, round+1, got.CurrentRound)
			assert.Equal(t, models.StatusOngoing, got.Status)
			assert.Equal(t, models.SidePro, got.CurrentTurn)
		} else {
			assert.Equal(t, models.MaxRounds+1, got.CurrentRound)
			assert.Equal(t, models.StatusJudging, got.Status)
		}
	}

	// No arguments past judging, valid turn order or not.
	if err := s.AddArgument(debate.ID, alice.ID, "too late", ""); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after judging, got %v", err)
	}

	args, err := s.db.Argument.ListForDebate(debate.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 6, len(args))
	assert.Equal(t, models.SidePro, args[0].Position)
	assert.Equal(t, 1, args[0].RoundNumber)
	assert.Equal(t, models.SideCon, args[5].Position)
	assert.Equal(t, 3, args[5].RoundNumber)
}

func TestAddArgumentResetsDeadline(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")

	debate := openDebate(t, s, alice.ID, models.SidePro)
	if err := s.JoinDebate(debate.ID, bob.ID, models.SideCon); err != nil {
		t.Fatal(err)
	}
	before, _ := s.db.Debate.Get(debate.ID)

	time.Sleep(10 * time.Millisecond)
	if err := s.AddArgument(debate.ID, alice.ID, "opening statement", ""); err != nil {
		t.Fatal(err)
	}
	after, _ := s.db.Debate.Get(debate.ID)

	if !after.CurrentDeadline.After(*before.CurrentDeadline) {
		t.Fatalf("deadline not restarted: before %v, after %v", before.CurrentDeadline, after.CurrentDeadline)
	}
}

func TestAddArgumentRequiresSources(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")

	debate, err := s.CreateDebate(alice.ID, CreateDebateInput{
		Title:       "Are citations mandatory in serious debate?",
		Category:    "education",
		Side:        models.SidePro,
		NeedSources: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.JoinDebate(debate.ID, bob.ID, models.SideCon); err != nil {
		t.Fatal(err)
	}

	if err := s.AddArgument(debate.ID, alice.ID, "trust me", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without sources, got %v", err)
	}
	if err := s.AddArgument(debate.ID, alice.ID, "see attached", `["https://example.com/study"]`); err != nil {
		t.Fatal(err)
	}
}

func TestGetDebateWithArgumentsCountsViews(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	debate := openDebate(t, s, alice.ID, models.SidePro)

	first, err := s.GetDebateWithArguments(debate.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.GetDebateWithArguments(debate.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Simple popularity metric: every fetch counts, no deduplication.
	assert.Equal(t, 1, first.Views)
	assert.Equal(t, 2, second.Views)

	if _, err := s.GetDebateWithArguments(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchDebates(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")

	seed := []struct {
		title    string
		category string
		views    int
		start    bool
	}{
		{"Is nuclear energy the answer to climate change?", "environment", 50, false},
		{"Should homework be abolished in schools?", "education", 200, true},
		{"Does social media harm public discourse?", "technology", 120, true},
	}
	var ids []uint
	for _, d := range seed {
		debate, err := s.CreateDebate(alice.ID, CreateDebateInput{
			Title:    d.title,
			Category: d.category,
			Side:     models.SidePro,
		})
		if err != nil {
			t.Fatal(err)
		}
		if d.start {
			if err := s.JoinDebate(debate.ID, bob.ID, models.SideCon); err != nil {
				t.Fatal(err)
			}
		}
		if d.views > 0 {
			current, err := s.db.Debate.Get(debate.ID)
			if err != nil {
				t.Fatal(err)
			}
			current.Views = d.views
			if err := s.db.Debate.Save(&current); err != nil {
				t.Fatal(err)
			}
		}
		ids = append(ids, debate.ID)
		time.Sleep(5 * time.Millisecond)
	}

	t.Run("text query matches title", func(t *testing.T) {
		debates, page, err := s.SearchDebates(SearchInput{Query: "homework"})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, 1, len(debates))
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, ids[1], debates[0].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		debates, _, err := s.SearchDebates(SearchInput{Statuses: []models.Status{models.StatusWaiting}})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, 1, len(debates))
		assert.Equal(t, ids[0], debates[0].ID)
	})

	t.Run("category filter", func(t *testing.T) {
		debates, _, err := s.SearchDebates(SearchInput{Categories: []string{"technology", "education"}})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, 2, len(debates))
	})

	t.Run("hot sorts by views", func(t *testing.T) {
		debates, _, err := s.SearchDebates(SearchInput{Sort: "hot"})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, 3, len(debates))
		assert.Equal(t, ids[1], debates[0].ID)
	})

	t.Run("urgent restricts to ongoing with deadline", func(t *testing.T) {
		debates, _, err := s.SearchDebates(SearchInput{Sort: "urgent"})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, 2, len(debates))
		for _, d := range debates {
			assert.Equal(t, models.StatusOngoing, d.Status)
		}
		if debates[0].CurrentDeadline.After(*debates[1].CurrentDeadline) {
			t.Fatal("urgent sort not ascending by deadline")
		}
	})

	t.Run("newest is default", func(t *testing.T) {
		debates, _, err := s.SearchDebates(SearchInput{})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, ids[2], debates[0].ID)
	})

	t.Run("out of range page is empty", func(t *testing.T) {
		debates, page, err := s.SearchDebates(SearchInput{Page: 7})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, 0, len(debates))
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 1, page.Pages)
	})
}

func TestFollowDebate(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")
	debate := openDebate(t, s, alice.ID, models.SidePro)

	if err := s.FollowDebate(bob.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.FollowDebate(bob.ID, debate.ID); err != nil {
		t.Fatal(err)
	}
	// Unique per (user, debate): a second follow is a no-op.
	if err := s.FollowDebate(bob.ID, debate.ID); err != nil {
		t.Fatal(err)
	}
	n, err := s.FollowerCount(debate.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, int64(1), n)

	if err := s.UnfollowDebate(bob.ID, debate.ID); err != nil {
		t.Fatal(err)
	}
	n, _ = s.FollowerCount(debate.ID)
	assert.Equal(t, int64(0), n)
}

func TestStatistics(t *testing.T) {
	s := newDebateService(t)
	alice := createTestUser(t, s.db, "alice")
	bob := createTestUser(t, s.db, "bob")

	openDebate(t, s, alice.ID, models.SidePro)
	started := openDebate(t, s, alice.ID, models.SideCon)
	if err := s.JoinDebate(started.ID, bob.ID, models.SidePro); err != nil {
		t.Fatal(err)
	}

	stats, err := s.Statistics()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, int64(1), stats.Waiting)
	assert.Equal(t, int64(1), stats.Ongoing)
	assert.Equal(t, int64(0), stats.Judging)
	assert.Equal(t, int64(2), stats.Total)
}
