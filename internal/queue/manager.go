// Package queue holds the slideshow playback state: the ordered queue, the
// display history, the one-shot pending override and the pool used for
// random selection when the queue is empty.
//
// Manager performs no I/O and no locking. It is owned by a single goroutine
// (the rotation event loop) and every operation completes synchronously.
package queue

import (
	"math/rand/v2"
	"path/filepath"
	"regexp"

	"github.com/genricoloni/framed/internal/clock"
	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultHistorySize = 50
	DefaultRecentSize  = 20
)

var overlayPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^.*_overlay\.(jpg|jpeg|png)$`),
	regexp.MustCompile(`(?i)^text_.*\.(jpg|jpeg|png)$`),
	regexp.MustCompile(`(?i)^overlay_.*\.(jpg|jpeg|png)$`),
}

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	HistorySize int
	RecentSize  int
	Shuffle     bool
	AutoRandom  bool
	Category    domain.Category
	Clock       clock.Clock
	Rand        *rand.Rand
}

// Manager is the slideshow queue and scheduler state
type Manager struct {
	logger *zap.Logger
	clock  clock.Clock
	rng    *rand.Rand

	queue  []domain.Artwork
	cursor int // index of the last item returned; -1 before the first

	history     []domain.HistoryEntry
	historySize int

	pending *domain.Artwork

	pool       []domain.Artwork
	recent     []string
	recentSize int
	preview    *domain.Artwork

	shuffle    bool
	autoRandom bool
	category   domain.Category
}

// NewManager creates an empty manager
func NewManager(logger *zap.Logger, opts Options) *Manager {
	if opts.HistorySize < 2 {
		opts.HistorySize = DefaultHistorySize
	}
	if opts.RecentSize < 1 {
		opts.RecentSize = DefaultRecentSize
	}
	if !opts.Category.Valid() {
		opts.Category = domain.CategoryMyPictures
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Manager{
		logger:      logger.Named("queue"),
		clock:       opts.Clock,
		rng:         opts.Rand,
		cursor:      -1,
		historySize: opts.HistorySize,
		recentSize:  opts.RecentSize,
		shuffle:     opts.Shuffle,
		autoRandom:  opts.AutoRandom,
		category:    opts.Category,
	}
}

// NewManagerFromConfig creates a manager with the configured slideshow defaults
func NewManagerFromConfig(logger *zap.Logger, cfg *config.AppConfig, clk clock.Clock) *Manager {
	s := cfg.Slideshow
	return NewManager(logger, Options{
		HistorySize: s.HistorySize,
		RecentSize:  s.RecentSize,
		Shuffle:     s.Shuffle,
		AutoRandom:  s.AutoRandom,
		Category:    domain.Category(s.Category),
		Clock:       clk,
	})
}

// IsOverlay reports whether an artwork id looks like a generated overlay frame
func IsOverlay(id string) bool {
	name := filepath.Base(id)
	for _, p := range overlayPatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// Enqueue appends art unless its id is missing or already queued
func (m *Manager) Enqueue(art domain.Artwork) bool {
	if art.ID == "" {
		m.logger.Warn("Ignoring artwork without id", zap.String("title", art.Title))
		return false
	}
	if m.indexOf(art.ID) >= 0 {
		m.logger.Debug("Artwork already queued", zap.String("id", art.ID))
		return false
	}

	next := make([]domain.Artwork, len(m.queue), len(m.queue)+1)
	copy(next, m.queue)
	m.queue = append(next, art)

	m.logger.Debug("Artwork queued", zap.String("id", art.ID), zap.Int("size", len(m.queue)))
	return true
}

// Dequeue removes the first artwork with the given id
func (m *Manager) Dequeue(id string) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}

	next := make([]domain.Artwork, 0, len(m.queue)-1)
	next = append(next, m.queue[:i]...)
	next = append(next, m.queue[i+1:]...)
	m.queue = next

	// Keep the item that was up next still up next
	if i <= m.cursor {
		m.cursor--
	}
	if len(m.queue) == 0 {
		m.cursor = -1
	}

	m.logger.Debug("Artwork dequeued", zap.String("id", id), zap.Int("size", len(m.queue)))
	return true
}

// SetQueue replaces the queue with a deduplicated copy of arts, shuffled
// when shuffle mode is on. The next GetNext returns its first element.
func (m *Manager) SetQueue(arts []domain.Artwork) {
	next := dedup(arts)
	if m.shuffle {
		m.shuffleInPlace(next)
	}
	m.queue = next
	m.cursor = -1

	m.logger.Debug("Queue replaced", zap.Int("size", len(next)), zap.Bool("shuffled", m.shuffle))
}

// Clear empties the queue, the history and the pending override
func (m *Manager) Clear() {
	m.queue = nil
	m.history = nil
	m.cursor = -1
	m.pending = nil
	m.preview = nil
}

// GetNext returns the artwork to display next and records it in the history.
// Priority: pending override, queue (circular), random pick from the pool
// when auto-random is on. Returns false when nothing is available.
func (m *Manager) GetNext() (domain.Artwork, bool) {
	if m.pending != nil {
		art := *m.pending
		m.pending = nil
		m.record(art)
		m.logger.Debug("Returning pending override", zap.String("id", art.ID))
		return art, true
	}

	if len(m.queue) > 0 {
		m.cursor = (m.cursor + 1) % len(m.queue)
		art := m.queue[m.cursor]
		m.record(art)
		return art, true
	}

	if !m.autoRandom {
		return domain.Artwork{}, false
	}

	art, ok := m.pickRandom()
	if !ok {
		m.logger.Warn("No artwork available for random selection")
		return domain.Artwork{}, false
	}
	m.remember(art.ID)
	m.record(art)
	m.logger.Debug("Selected random artwork", zap.String("id", art.ID))
	return art, true
}

// PeekNext returns what GetNext would return without touching the cursor,
// the history or the recently-shown set. A random preview is kept so that
// the following GetNext returns the same artwork while it remains eligible.
func (m *Manager) PeekNext() (domain.Artwork, bool) {
	if m.pending != nil {
		return *m.pending, true
	}
	if len(m.queue) > 0 {
		return m.queue[(m.cursor+1)%len(m.queue)], true
	}
	if !m.autoRandom {
		return domain.Artwork{}, false
	}

	if m.preview != nil && m.eligible(m.preview.ID) {
		return *m.preview, true
	}

	candidates := m.candidates()
	if len(candidates) == 0 {
		return domain.Artwork{}, false
	}
	art := candidates[m.rng.IntN(len(candidates))]
	m.preview = &art
	return art, true
}

// GetPrevious drops the current history entry and returns the one before it.
// This shrinks the history; use PeekPrevious for a read-only view.
func (m *Manager) GetPrevious() (domain.Artwork, bool) {
	if len(m.history) < 2 {
		return domain.Artwork{}, false
	}
	m.history = m.history[:len(m.history)-1]
	return m.history[len(m.history)-1].Artwork, true
}

// PeekPrevious returns the artwork shown before the current one
func (m *Manager) PeekPrevious() (domain.Artwork, bool) {
	if len(m.history) < 2 {
		return domain.Artwork{}, false
	}
	return m.history[len(m.history)-2].Artwork, true
}

// GetCurrent returns the most recently handed out artwork
func (m *Manager) GetCurrent() (domain.Artwork, bool) {
	if len(m.history) == 0 {
		return domain.Artwork{}, false
	}
	return m.history[len(m.history)-1].Artwork, true
}

// AddOverlay sets the one-shot pending override, replacing any previous one
func (m *Manager) AddOverlay(art domain.Artwork) bool {
	if art.ID == "" {
		m.logger.Warn("Ignoring overlay without id")
		return false
	}
	m.pending = &art
	m.logger.Debug("Overlay pending", zap.String("id", art.ID))
	return true
}

// SetAvailablePool replaces the random selection pool
func (m *Manager) SetAvailablePool(arts []domain.Artwork) {
	pool := dedup(arts)
	filtered := pool[:0]
	for _, a := range pool {
		if IsOverlay(a.ID) || (a.OriginalID != "" && IsOverlay(a.OriginalID)) {
			continue
		}
		filtered = append(filtered, a)
	}
	m.pool = filtered
	m.preview = nil

	m.logger.Debug("Available pool set", zap.Int("count", len(m.pool)))
}

// SetCategory sets the display category; unknown values are ignored
func (m *Manager) SetCategory(c domain.Category) bool {
	if !c.Valid() {
		m.logger.Warn("Ignoring unknown category", zap.Int("category", int(c)))
		return false
	}
	m.category = c
	return true
}

// SetAutoRandom toggles random selection when the queue is empty
func (m *Manager) SetAutoRandom(enabled bool) {
	m.autoRandom = enabled
	m.preview = nil
}

// SetShuffle sets shuffle mode; enabling it reshuffles a non-empty queue
func (m *Manager) SetShuffle(enabled bool) {
	m.shuffle = enabled
	if enabled && len(m.queue) > 0 {
		next := append([]domain.Artwork(nil), m.queue...)
		m.shuffleInPlace(next)
		m.queue = next
	}
}

func (m *Manager) Shuffle() bool             { return m.shuffle }
func (m *Manager) AutoRandom() bool          { return m.autoRandom }
func (m *Manager) Category() domain.Category { return m.category }
func (m *Manager) QueueSize() int            { return len(m.queue) }
func (m *Manager) AvailableCount() int       { return len(m.pool) }

// Queue returns a copy of the queue in playback order
func (m *Manager) Queue() []domain.Artwork {
	return append([]domain.Artwork(nil), m.queue...)
}

// Pool returns a copy of the random selection pool
func (m *Manager) Pool() []domain.Artwork {
	return append([]domain.Artwork(nil), m.pool...)
}

// History returns a copy of the history, oldest first
func (m *Manager) History() []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), m.history...)
}

// ReplaceArtwork swaps every queued, pooled and pending copy of oldID for art.
// Used once external artwork has been uploaded and has a content id.
func (m *Manager) ReplaceArtwork(oldID string, art domain.Artwork) {
	replace := func(items []domain.Artwork) []domain.Artwork {
		out := make([]domain.Artwork, 0, len(items))
		for _, it := range items {
			if it.ID == oldID {
				it = art
			}
			out = append(out, it)
		}
		return dedup(out)
	}
	m.queue = replace(m.queue)
	m.pool = replace(m.pool)
	if m.pending != nil && m.pending.ID == oldID {
		m.pending = &art
	}
	if m.preview != nil && m.preview.ID == oldID {
		m.preview = &art
	}
	if m.cursor >= len(m.queue) {
		m.cursor = len(m.queue) - 1
	}
	for i, id := range m.recent {
		if id == oldID {
			m.recent[i] = art.ID
		}
	}
	// The history entry for the artwork being shown keeps pointing at the
	// displayable copy
	if n := len(m.history); n > 0 && m.history[n-1].Artwork.ID == oldID {
		m.history[n-1].Artwork = art
	}
}

func (m *Manager) record(art domain.Artwork) {
	m.history = append(m.history, domain.HistoryEntry{Artwork: art, ShownAt: m.clock.Now()})
	if over := len(m.history) - m.historySize; over > 0 {
		m.history = append([]domain.HistoryEntry(nil), m.history[over:]...)
	}
}

func (m *Manager) remember(id string) {
	m.recent = append(m.recent, id)
	if over := len(m.recent) - m.recentSize; over > 0 {
		m.recent = append([]string(nil), m.recent[over:]...)
	}
}

// pickRandom selects from the pool, avoiding recently shown ids. When every
// pool member was shown recently the set is reset, keeping only the last
// shown id so it is not repeated immediately.
func (m *Manager) pickRandom() (domain.Artwork, bool) {
	if len(m.pool) == 0 {
		return domain.Artwork{}, false
	}

	if m.preview != nil {
		art := *m.preview
		m.preview = nil
		if m.eligible(art.ID) {
			return art, true
		}
	}

	candidates := m.filterPool(m.recent)
	if len(candidates) == 0 {
		m.logger.Debug("All artworks shown recently, resetting")
		m.recent = nil
		if last, ok := m.GetCurrent(); ok && len(m.pool) > 1 && m.inPool(last.ID) {
			m.recent = []string{last.ID}
		}
		candidates = m.filterPool(m.recent)
	}
	return candidates[m.rng.IntN(len(candidates))], true
}

// candidates returns the pool members not in the recently-shown set, or the
// whole pool minus the last shown id when that set is exhausted
func (m *Manager) candidates() []domain.Artwork {
	out := m.filterPool(m.recent)
	if len(out) > 0 || len(m.pool) == 0 {
		return out
	}
	if last, ok := m.GetCurrent(); ok && len(m.pool) > 1 {
		if rest := m.filterPool([]string{last.ID}); len(rest) > 0 {
			return rest
		}
	}
	return append([]domain.Artwork(nil), m.pool...)
}

func (m *Manager) filterPool(exclude []string) []domain.Artwork {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	var out []domain.Artwork
	for _, a := range m.pool {
		if _, ok := skip[a.ID]; !ok {
			out = append(out, a)
		}
	}
	return out
}

func (m *Manager) eligible(id string) bool {
	for _, c := range m.candidates() {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (m *Manager) inPool(id string) bool {
	for _, a := range m.pool {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (m *Manager) indexOf(id string) int {
	for i, a := range m.queue {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) shuffleInPlace(arts []domain.Artwork) {
	m.rng.Shuffle(len(arts), func(i, j int) { arts[i], arts[j] = arts[j], arts[i] })
}

// dedup copies arts, dropping entries without an id and repeated ids
func dedup(arts []domain.Artwork) []domain.Artwork {
	seen := make(map[string]struct{}, len(arts))
	out := make([]domain.Artwork, 0, len(arts))
	for _, a := range arts {
		if a.ID == "" {
			continue
		}
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
