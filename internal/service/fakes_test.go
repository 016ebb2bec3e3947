package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Amoukli/Coach-AI/internal/cache"
	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/repository"
)

// In-memory fakes for the repository and cache interfaces, shared by
// the service tests.

type memScenarioRepo struct {
	mu        sync.Mutex
	scenarios map[string]*model.Scenario
}

func newMemScenarioRepo() *memScenarioRepo {
	return &memScenarioRepo{scenarios: make(map[string]*model.Scenario)}
}

func (r *memScenarioRepo) Create(_ context.Context, s *model.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.scenarios[s.ScenarioID] = &copied
	return nil
}

func (r *memScenarioRepo) GetByScenarioID(_ context.Context, id string) (*model.Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scenarios[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *memScenarioRepo) List(_ context.Context, filter repository.ScenarioFilter) ([]*model.Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Scenario
	for _, s := range r.scenarios {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Specialty != "" && s.Specialty != filter.Specialty {
			continue
		}
		if filter.Difficulty != "" && s.Difficulty != filter.Difficulty {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScenarioID < out[j].ScenarioID })
	return out, nil
}

func (r *memScenarioRepo) Update(_ context.Context, s *model.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.scenarios[s.ScenarioID] = &copied
	return nil
}

func (r *memScenarioRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scenarios, id)
	return nil
}

func (r *memScenarioRepo) RecordPlay(_ context.Context, id string, score, completionMin int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scenarios[id]
	if !ok {
		return nil
	}
	played := s.TimesPlayed + 1
	if s.TimesPlayed > 0 {
		s.AverageScore = (s.AverageScore*s.TimesPlayed + score) / played
		s.AverageCompletionMin = (s.AverageCompletionMin*s.TimesPlayed + completionMin) / played
	} else {
		s.AverageScore = score
		s.AverageCompletionMin = completionMin
	}
	s.TimesPlayed = played
	return nil
}

type memScenarioCache struct {
	mu    sync.Mutex
	metas map[string]*model.ScenarioMeta
}

func newMemScenarioCache() *memScenarioCache {
	return &memScenarioCache{metas: make(map[string]*model.ScenarioMeta)}
}

func (c *memScenarioCache) SetMeta(_ context.Context, meta *model.ScenarioMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *meta
	c.metas[meta.ScenarioID] = &copied
	return nil
}

func (c *memScenarioCache) GetMeta(_ context.Context, id string) (*model.ScenarioMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, ok := c.metas[id]
	if !ok {
		return nil, nil
	}
	copied := *meta
	return &copied, nil
}

func (c *memScenarioCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.metas, id)
	return nil
}

type memSessionCache struct {
	mu          sync.Mutex
	metas       map[string]*cache.SessionMeta
	topics      map[string][]string
	redFlags    map[string][]string
	questions   map[string]int
	relevant    map[string]int
	transcripts map[string][]model.TranscriptEntry
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{
		metas:       make(map[string]*cache.SessionMeta),
		topics:      make(map[string][]string),
		redFlags:    make(map[string][]string),
		questions:   make(map[string]int),
		relevant:    make(map[string]int),
		transcripts: make(map[string][]model.TranscriptEntry),
	}
}

func (c *memSessionCache) SetMeta(_ context.Context, id string, meta *cache.SessionMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *meta
	c.metas[id] = &copied
	return nil
}

func (c *memSessionCache) GetMeta(_ context.Context, id string) (*cache.SessionMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, ok := c.metas[id]
	if !ok {
		return nil, nil
	}
	copied := *meta
	return &copied, nil
}

func (c *memSessionCache) SetCurrentNode(_ context.Context, id, nodeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if meta, ok := c.metas[id]; ok {
		meta.CurrentNodeID = nodeID
	}
	return nil
}

func addUnique(existing []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, e := range existing {
			if e == item {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, item)
		}
	}
	return existing
}

func (c *memSessionCache) AddTopics(_ context.Context, id string, topics ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[id] = addUnique(c.topics[id], topics...)
	return nil
}

func (c *memSessionCache) GetTopics(_ context.Context, id string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.topics[id]...), nil
}

func (c *memSessionCache) AddRedFlags(_ context.Context, id string, flags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.redFlags[id] = addUnique(c.redFlags[id], flags...)
	return nil
}

func (c *memSessionCache) GetRedFlags(_ context.Context, id string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.redFlags[id]...), nil
}

func (c *memSessionCache) IncrQuestions(_ context.Context, id string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions[id]++
	return c.questions[id], nil
}

func (c *memSessionCache) IncrRelevant(_ context.Context, id string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.relevant[id]++
	return c.relevant[id], nil
}

func (c *memSessionCache) GetCounters(_ context.Context, id string) (int, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questions[id], c.relevant[id], nil
}

func (c *memSessionCache) AppendTranscript(_ context.Context, id string, entry *model.TranscriptEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcripts[id] = append(c.transcripts[id], *entry)
	return nil
}

func (c *memSessionCache) GetTranscript(_ context.Context, id string) ([]model.TranscriptEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.TranscriptEntry(nil), c.transcripts[id]...), nil
}

func (c *memSessionCache) GetTranscriptTail(_ context.Context, id string, n int) ([]model.TranscriptEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.transcripts[id]
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return append([]model.TranscriptEntry(nil), entries...), nil
}

func (c *memSessionCache) Clear(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.metas, id)
	delete(c.topics, id)
	delete(c.redFlags, id)
	delete(c.questions, id)
	delete(c.relevant, id)
	delete(c.transcripts, id)
	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.sessions[s.SessionID] = &copied
	return nil
}

func (r *memSessionRepo) GetBySessionID(_ context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *memSessionRepo) GetByUser(_ context.Context, userID string, status model.SessionStatus) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Session
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (r *memSessionRepo) GetByScenario(_ context.Context, scenarioID string) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Session
	for _, s := range r.sessions {
		if s.ScenarioID == scenarioID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memSessionRepo) Update(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.sessions[s.SessionID] = &copied
	return nil
}

func (r *memSessionRepo) CountCompletedByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == model.SessionCompleted {
			n++
		}
	}
	return n, nil
}

type memAssessmentRepo struct {
	mu          sync.Mutex
	assessments map[string]*model.Assessment
}

func newMemAssessmentRepo() *memAssessmentRepo {
	return &memAssessmentRepo{assessments: make(map[string]*model.Assessment)}
}

func (r *memAssessmentRepo) Create(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	copied := *a
	r.assessments[a.AssessmentID] = &copied
	return nil
}

func (r *memAssessmentRepo) GetByAssessmentID(_ context.Context, id string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assessments[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *memAssessmentRepo) GetBySessionID(_ context.Context, sessionID string) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assessments {
		if a.SessionID == sessionID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memAssessmentRepo) GetByUser(_ context.Context, userID string, limit int64) ([]*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Assessment
	for _, a := range r.assessments {
		if a.UserID == userID {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memAssessmentRepo) ExistsForSession(_ context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assessments {
		if a.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

type memProgressRepo struct {
	mu      sync.Mutex
	records map[string]*model.SkillProgress
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{records: make(map[string]*model.SkillProgress)}
}

func progressKey(userID, skill string) string { return userID + "/" + skill }

func (r *memProgressRepo) Upsert(_ context.Context, p *model.SkillProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *p
	r.records[progressKey(p.UserID, p.SkillName)] = &copied
	return nil
}

func (r *memProgressRepo) GetByUser(_ context.Context, userID string) ([]*model.SkillProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.SkillProgress
	for _, p := range r.records {
		if p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memProgressRepo) GetByUserAndSkill(_ context.Context, userID, skill string) (*model.SkillProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[progressKey(userID, skill)]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = "u_" + u.Email
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *memUserRepo) TouchLastLogin(_ context.Context, _ string) error { return nil }

type memSkillsCache struct {
	mu     sync.Mutex
	levels map[string]map[string]int
}

func newMemSkillsCache() *memSkillsCache {
	return &memSkillsCache{levels: make(map[string]map[string]int)}
}

func (c *memSkillsCache) SetLevel(_ context.Context, userID, skill string, level int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.levels[userID] == nil {
		c.levels[userID] = make(map[string]int)
	}
	c.levels[userID][skill] = level
	return nil
}

func (c *memSkillsCache) GetRadar(_ context.Context, userID string) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	radar := make(map[string]int, len(c.levels[userID]))
	for skill, level := range c.levels[userID] {
		radar[skill] = level
	}
	return radar, nil
}

func (c *memSkillsCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.levels, userID)
	return nil
}

type memLeaderboard struct {
	mu     sync.Mutex
	scores map[string]map[string]int
}

func newMemLeaderboard() *memLeaderboard {
	return &memLeaderboard{scores: make(map[string]map[string]int)}
}

func (l *memLeaderboard) UpdateScore(_ context.Context, specialty, userID string, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.scores[specialty] == nil {
		l.scores[specialty] = make(map[string]int)
	}
	l.scores[specialty][userID] = score
	return nil
}

func (l *memLeaderboard) GetTop(_ context.Context, specialty string, limit int) ([]cache.LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []cache.LeaderboardEntry
	for userID, score := range l.scores[specialty] {
		entries = append(entries, cache.LeaderboardEntry{UserID: userID, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (l *memLeaderboard) GetRank(_ context.Context, specialty, userID string) (int64, error) {
	entries, _ := l.GetTop(context.Background(), specialty, 1<<30)
	for _, e := range entries {
		if e.UserID == userID {
			return int64(e.Rank), nil
		}
	}
	return -1, nil
}

// stubResponder returns a fixed reply without any network calls.
type stubResponder struct {
	reply PatientReply
}

func (s *stubResponder) Generate(_ context.Context, _ *model.Scenario, _ []model.TranscriptEntry, _ string) PatientReply {
	return s.reply
}
