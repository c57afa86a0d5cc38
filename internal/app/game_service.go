package app

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"questboard/internal/domain"
)

// SessionRepository abstracts where login sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// SeedLoader provides the roster and quest log a game starts from.
type SeedLoader interface {
	LoadSeed(ctx context.Context) (domain.Seed, error)
}

// Option customises a GameService.
type Option func(*GameService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *GameService) { g.now = now }
}

// WithLocation sets the time zone that decides where a calendar day starts.
func WithLocation(loc *time.Location) Option {
	return func(g *GameService) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// WithIDGenerator replaces the uuid generator used for new records and tokens.
func WithIDGenerator(newID func() string) Option {
	return func(g *GameService) { g.newID = newID }
}

// GameService is the classroom's application state. It is the single owner
// of the roster, quest log and submissions; the logged-in student is always
// looked up by id, never copied.
type GameService struct {
	sessions SessionRepository
	catalog  domain.Catalog
	validate *validator.Validate
	now      func() time.Time
	loc      *time.Location
	newID    func() string

	mu          sync.RWMutex
	roster      []string
	students    map[string]*domain.Student
	quests      []*domain.Quest
	questIndex  map[string]*domain.Quest
	submissions []*domain.Submission
	subIndex    map[string]*domain.Submission
	subscribers map[chan domain.Change]struct{}
}

// NewGameService seeds a game from seed and the static catalog.
func NewGameService(seed domain.Seed, catalog domain.Catalog, sessions SessionRepository, opts ...Option) *GameService {
	g := &GameService{
		sessions:    sessions,
		catalog:     catalog,
		validate:    validator.New(),
		now:         time.Now,
		loc:         time.Local,
		newID:       uuid.NewString,
		students:    make(map[string]*domain.Student, len(seed.Students)),
		questIndex:  make(map[string]*domain.Quest, len(seed.Quests)),
		subIndex:    make(map[string]*domain.Submission),
		subscribers: make(map[chan domain.Change]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, s := range seed.Students {
		if _, dup := g.students[s.ID]; dup {
			continue
		}
		student := s.Clone()
		if student.CurrentBodySprite == "" {
			student.CurrentBodySprite = catalog.DefaultSprite
		}
		normalizeStudent(&student)
		g.roster = append(g.roster, student.ID)
		g.students[student.ID] = &student
	}
	for _, q := range seed.Quests {
		if _, dup := g.questIndex[q.ID]; dup {
			continue
		}
		quest := q
		if quest.Type == "" {
			quest.Type = domain.QuestUpload
		}
		if quest.Frequency == "" {
			quest.Frequency = domain.FrequencyOnce
		}
		g.quests = append(g.quests, &quest)
		g.questIndex[quest.ID] = &quest
	}
	return g
}

// Catalog returns the static shop and dungeon content.
func (g *GameService) Catalog() domain.Catalog {
	return g.catalog
}

// Subscribe returns a channel that receives every state change.
// The caller must invoke the returned cancel function to avoid leaks.
func (g *GameService) Subscribe() (<-chan domain.Change, func()) {
	ch := make(chan domain.Change, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

func (g *GameService) publishLocked(change domain.Change) {
	for ch := range g.subscribers {
		select {
		case ch <- change:
		default:
			// slow subscriber: drop its oldest change to make room
			select {
			case <-ch:
			default:
			}
			ch <- change
		}
	}
}

func (g *GameService) change(kind domain.ChangeKind, studentID, questID string, at time.Time) {
	g.publishLocked(domain.Change{Kind: kind, StudentID: studentID, QuestID: questID, At: at})
}

// day is the calendar date of t in the game's time zone.
func (g *GameService) day(t time.Time) string {
	return t.In(g.loc).Format("2006-01-02")
}

func (g *GameService) studentLocked(studentID string) (*domain.Student, error) {
	if studentID == "" {
		return nil, domain.ErrNotLoggedIn
	}
	student, ok := g.students[studentID]
	if !ok {
		return nil, domain.ErrStudentNotFound
	}
	return student, nil
}

func (g *GameService) notifyLocked(student *domain.Student, message string, at time.Time) {
	student.Notifications = append(student.Notifications, domain.Notification{
		ID:        g.newID(),
		Message:   message,
		CreatedAt: at,
	})
}

func normalizeStudent(s *domain.Student) {
	if s.Inventory == nil {
		s.Inventory = []domain.Item{}
	}
	if s.DefeatedBosses == nil {
		s.DefeatedBosses = []string{}
	}
	if s.Notifications == nil {
		s.Notifications = []domain.Notification{}
	}
}

func snapshot(s *domain.Student) domain.Student {
	out := s.Clone()
	normalizeStudent(&out)
	return out
}
