// file: internal/services/mocks_test.go
package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"quantlearn/internal/models"
)

// In-memory fakes shared by the service tests. Each fake implements the
// matching repository interface with just enough behavior to drive the
// services, plus counters so tests can assert on persistence.

// ===============================
// USERS
// ===============================

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for id := int64(1); id < f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id int64, role string) error {
	user, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	user.Role = role
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return errors.New("user not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

// ===============================
// PROGRESS
// ===============================

type fakeProgressRepo struct {
	rows map[string]*models.TopicProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: make(map[string]*models.TopicProgress)}
}

func progressKey(userID int64, topicSlug string) string {
	return strconv.FormatInt(userID, 10) + ":" + topicSlug
}

func (f *fakeProgressRepo) GetByUserAndTopic(_ context.Context, userID int64, topicSlug string) (*models.TopicProgress, error) {
	return f.rows[progressKey(userID, topicSlug)], nil
}

func (f *fakeProgressRepo) ListByUser(_ context.Context, userID int64) ([]*models.TopicProgress, error) {
	var out []*models.TopicProgress
	for _, tp := range f.rows {
		if tp.UserID == userID {
			out = append(out, tp)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) MarkCompleted(_ context.Context, userID int64, topicSlug string) (bool, error) {
	key := progressKey(userID, topicSlug)
	if existing, ok := f.rows[key]; ok && existing.Status == models.TopicStatusCompleted {
		return false, nil
	}
	now := time.Now()
	f.rows[key] = &models.TopicProgress{
		UserID:      userID,
		TopicSlug:   topicSlug,
		Status:      models.TopicStatusCompleted,
		CompletedAt: &now,
	}
	return true, nil
}

func (f *fakeProgressRepo) CountCompleted(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, tp := range f.rows {
		if tp.UserID == userID && tp.Status == models.TopicStatusCompleted {
			count++
		}
	}
	return count, nil
}

// ===============================
// STATS
// ===============================

type fakeStatsRepo struct {
	rows      map[int64]*models.UserStats
	updateErr error
	updates   int
	top       []*models.LeaderboardEntry
	topCalls  int
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{rows: make(map[int64]*models.UserStats)}
}

func (f *fakeStatsRepo) GetByUserID(_ context.Context, userID int64) (*models.UserStats, error) {
	return f.rows[userID], nil
}

func (f *fakeStatsRepo) Create(_ context.Context, stats *models.UserStats) error {
	f.rows[stats.UserID] = stats
	return nil
}

func (f *fakeStatsRepo) EnsureExists(_ context.Context, userID int64) (*models.UserStats, error) {
	if stats, ok := f.rows[userID]; ok {
		return stats, nil
	}
	stats := models.NewUserStats(userID)
	f.rows[userID] = stats
	return stats, nil
}

func (f *fakeStatsRepo) Update(_ context.Context, stats *models.UserStats) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.rows[stats.UserID] = stats
	f.updates++
	return nil
}

func (f *fakeStatsRepo) AddStudyTime(_ context.Context, userID int64, minutes int) error {
	stats, ok := f.rows[userID]
	if !ok {
		return errors.New("stats row missing")
	}
	stats.TotalStudyTimeMinutes += minutes
	return nil
}

func (f *fakeStatsRepo) TopByPoints(_ context.Context, _ int) ([]*models.LeaderboardEntry, error) {
	f.topCalls++
	return f.top, nil
}

// ===============================
// BADGES
// ===============================

type fakeBadgeRepo struct {
	catalog   []*models.Badge
	positions map[string]int
	awards    map[int64][]*models.UserBadge
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{
		positions: make(map[string]int),
		awards:    make(map[int64][]*models.UserBadge),
	}
}

func (f *fakeBadgeRepo) GetAll(_ context.Context) ([]*models.Badge, error) {
	return f.catalog, nil
}

func (f *fakeBadgeRepo) GetByID(_ context.Context, id string) (*models.Badge, error) {
	for _, b := range f.catalog {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBadgeRepo) Upsert(_ context.Context, badge *models.Badge, position int) error {
	f.positions[badge.ID] = position
	for i, existing := range f.catalog {
		if existing.ID == badge.ID {
			f.catalog[i] = badge
			return nil
		}
	}
	f.catalog = append(f.catalog, badge)
	return nil
}

func (f *fakeBadgeRepo) Count(_ context.Context) (int, error) {
	return len(f.catalog), nil
}

func (f *fakeBadgeRepo) GetUserBadges(_ context.Context, userID int64) ([]*models.EarnedBadge, error) {
	awards := f.awards[userID]
	earned := make([]*models.EarnedBadge, 0, len(awards))
	// Newest first, matching the repository ordering contract.
	for i := len(awards) - 1; i >= 0; i-- {
		for _, b := range f.catalog {
			if b.ID == awards[i].BadgeID {
				earned = append(earned, &models.EarnedBadge{Badge: *b, EarnedAt: awards[i].EarnedAt})
				break
			}
		}
	}
	return earned, nil
}

func (f *fakeBadgeRepo) InsertUserBadge(_ context.Context, userBadge *models.UserBadge) error {
	if userBadge.EarnedAt.IsZero() {
		userBadge.EarnedAt = time.Now()
	}
	f.awards[userBadge.UserID] = append(f.awards[userBadge.UserID], userBadge)
	return nil
}

func (f *fakeBadgeRepo) CountUserBadges(_ context.Context, userID int64) (int, error) {
	return len(f.awards[userID]), nil
}

// ===============================
// QUIZ
// ===============================

type fakeQuizRepo struct {
	questions map[int64]*models.QuizQuestion
	order     []int64
	results   []*models.QuizResult
	nextID    int64
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{questions: make(map[int64]*models.QuizQuestion), nextID: 1}
}

func (f *fakeQuizRepo) addQuestion(q *models.QuizQuestion) *models.QuizQuestion {
	q.ID = f.nextID
	f.nextID++
	f.questions[q.ID] = q
	f.order = append(f.order, q.ID)
	return q
}

func (f *fakeQuizRepo) ListQuestions(_ context.Context, topicSlug, difficulty string, limit int) ([]*models.QuizQuestion, error) {
	var out []*models.QuizQuestion
	for _, id := range f.order {
		q := f.questions[id]
		if q.TopicSlug != topicSlug {
			continue
		}
		if difficulty != "" && q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQuizRepo) GetQuestionsByIDs(_ context.Context, ids []int64) ([]*models.QuizQuestion, error) {
	var out []*models.QuizQuestion
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuizRepo) CreateQuestion(_ context.Context, question *models.QuizQuestion) error {
	f.addQuestion(question)
	return nil
}

func (f *fakeQuizRepo) UpdateQuestion(_ context.Context, question *models.QuizQuestion) error {
	if _, ok := f.questions[question.ID]; !ok {
		return errors.New("question not found")
	}
	f.questions[question.ID] = question
	return nil
}

func (f *fakeQuizRepo) DeleteQuestion(_ context.Context, id int64) error {
	if _, ok := f.questions[id]; !ok {
		return errors.New("question not found")
	}
	delete(f.questions, id)
	return nil
}

func (f *fakeQuizRepo) CountQuestions(_ context.Context) (int, error) {
	return len(f.questions), nil
}

func (f *fakeQuizRepo) InsertResult(_ context.Context, result *models.QuizResult) error {
	result.ID = int64(len(f.results) + 1)
	result.CreatedAt = time.Now()
	f.results = append(f.results, result)
	return nil
}

func (f *fakeQuizRepo) ListResultsByUser(_ context.Context, userID int64, limit int) ([]*models.QuizResult, error) {
	var out []*models.QuizResult
	for i := len(f.results) - 1; i >= 0; i-- {
		if f.results[i].UserID != userID {
			continue
		}
		out = append(out, f.results[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQuizRepo) CountResults(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, r := range f.results {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeQuizRepo) CountPassed(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, r := range f.results {
		if r.UserID == userID && r.Passed {
			count++
		}
	}
	return count, nil
}

// ===============================
// CATALOG
// ===============================

type fakeCatalogRepo struct {
	sections []*models.Section
	topics   map[string]*models.Topic
}

func newFakeCatalogRepo(slugs ...string) *fakeCatalogRepo {
	repo := &fakeCatalogRepo{topics: make(map[string]*models.Topic)}
	for i, slug := range slugs {
		repo.topics[slug] = &models.Topic{Slug: slug, SectionID: "arithmetic", Title: slug, Position: i + 1}
	}
	return repo
}

func (f *fakeCatalogRepo) ListSections(_ context.Context) ([]*models.Section, error) {
	return f.sections, nil
}

func (f *fakeCatalogRepo) GetTopicBySlug(_ context.Context, slug string) (*models.Topic, error) {
	return f.topics[slug], nil
}

func (f *fakeCatalogRepo) CountTopics(_ context.Context) (int, error) {
	return len(f.topics), nil
}

// ===============================
// BOOKMARKS AND NOTES
// ===============================

type fakeBookmarkRepo struct {
	rows map[string]*models.Bookmark
}

func newFakeBookmarkRepo() *fakeBookmarkRepo {
	return &fakeBookmarkRepo{rows: make(map[string]*models.Bookmark)}
}

func (f *fakeBookmarkRepo) Create(_ context.Context, bookmark *models.Bookmark) error {
	for _, existing := range f.rows {
		if existing.UserID == bookmark.UserID && existing.TopicSlug == bookmark.TopicSlug {
			// Mirrors the unique constraint violation text from lib/pq.
			return errors.New(`pq: duplicate key value violates unique constraint "bookmarks_user_topic_key"`)
		}
	}
	bookmark.CreatedAt = time.Now()
	f.rows[bookmark.ID] = bookmark
	return nil
}

func (f *fakeBookmarkRepo) GetByID(_ context.Context, id string) (*models.Bookmark, error) {
	return f.rows[id], nil
}

func (f *fakeBookmarkRepo) ListByUser(_ context.Context, userID int64) ([]*models.Bookmark, error) {
	var out []*models.Bookmark
	for _, b := range f.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookmarkRepo) Delete(_ context.Context, id string, userID int64) error {
	b, ok := f.rows[id]
	if !ok || b.UserID != userID {
		return errors.New("bookmark not found")
	}
	delete(f.rows, id)
	return nil
}

type fakeNoteRepo struct {
	rows map[string]*models.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{rows: make(map[string]*models.Note)}
}

func (f *fakeNoteRepo) Create(_ context.Context, note *models.Note) error {
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	f.rows[note.ID] = note
	return nil
}

func (f *fakeNoteRepo) GetByID(_ context.Context, id string) (*models.Note, error) {
	return f.rows[id], nil
}

func (f *fakeNoteRepo) ListByUser(_ context.Context, userID int64) ([]*models.Note, error) {
	var out []*models.Note
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) Update(_ context.Context, note *models.Note) error {
	if _, ok := f.rows[note.ID]; !ok {
		return errors.New("note not found")
	}
	note.UpdatedAt = time.Now()
	f.rows[note.ID] = note
	return nil
}

func (f *fakeNoteRepo) Delete(_ context.Context, id string, userID int64) error {
	n, ok := f.rows[id]
	if !ok || n.UserID != userID {
		return errors.New("note not found")
	}
	delete(f.rows, id)
	return nil
}

// ===============================
// CACHE
// ===============================

type memoryCache struct {
	data map[string][]byte
	sets int
	gets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.gets++
	value, ok := c.data[key]
	return value, ok
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *memoryCache) Increment(_ context.Context, key string, delta int64) (int64, error) {
	current := int64(0)
	if raw, ok := c.data[key]; ok {
		parsed, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, err
		}
		current = parsed
	}
	current += delta
	c.data[key] = []byte(strconv.FormatInt(current, 10))
	return current, nil
}

func (c *memoryCache) Health(_ context.Context) error { return nil }

func (c *memoryCache) Close() error { return nil }
