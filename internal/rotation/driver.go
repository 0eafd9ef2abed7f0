// Package rotation drives the slideshow: it loads the artwork pool, uploads
// external artwork to the display, and advances the queue on a timer.
package rotation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/framed/internal/clock"
	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/genricoloni/framed/internal/metrics"
	"github.com/genricoloni/framed/internal/queue"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultInterval = 10 * time.Minute
	overlayMatte    = "none"
	overlaySource   = "Overlay"
)

var (
	// ErrNoArtwork is returned when there is nothing to display
	ErrNoArtwork = errors.New("no artwork available")
	// ErrStopped is returned once the driver loop has exited
	ErrStopped = errors.New("rotation driver stopped")
	// ErrInvalidCategory is returned for unknown category ids
	ErrInvalidCategory = errors.New("invalid category")
)

// Catalog gives access to the external artwork providers
type Catalog interface {
	LoadAllArtworks(ctx context.Context) map[string][]domain.Artwork
	ProviderByName(name string) (domain.ArtworkProvider, bool)
}

// Options are the start-rotation parameters
type Options struct {
	Interval time.Duration
	Shuffle  bool
	Category domain.Category
}

// Status is a snapshot of the slideshow state
type Status struct {
	Running     bool            `json:"running"`
	Interval    time.Duration   `json:"-"`
	Minutes     float64         `json:"interval_minutes"`
	Shuffle     bool            `json:"shuffle"`
	AutoRandom  bool            `json:"auto_random"`
	Category    string          `json:"category"`
	QueueSize   int             `json:"queue_size"`
	PoolSize    int             `json:"pool_size"`
	HistorySize int             `json:"history_size"`
	Current     *domain.Artwork `json:"current,omitempty"`
	Next        *domain.Artwork `json:"next,omitempty"`
}

// Params wires a Driver
type Params struct {
	Logger    *zap.Logger
	Queue     *queue.Manager
	Surface   domain.DisplaySurface
	Catalog   Catalog
	Processor domain.ImageProcessor
	Clock     clock.Clock
	Limiter   *rate.Limiter
	// Matte applied to uploaded external artwork
	Matte         string
	UploadTimeout time.Duration
	// CatalogRetryDelay is the wait before re-reading an empty native catalog
	CatalogRetryDelay time.Duration
	Defaults          Options
	AutoStart         bool
}

// Driver owns the queue manager through a single event loop goroutine.
// Every access to the manager is posted to that loop; network and display
// I/O always run outside of it.
type Driver struct {
	logger    *zap.Logger
	queue     *queue.Manager
	surface   domain.DisplaySurface
	catalog   Catalog
	processor domain.ImageProcessor
	clock     clock.Clock
	limiter   *rate.Limiter

	matte         string
	uploadTimeout time.Duration
	retryDelay    time.Duration
	defaults      Options
	autoStart     bool

	events   *broadcaster
	uploads  *uploadCache
	inflight singleflight.Group

	// serializes start/stop sequences
	startMu sync.Mutex

	cmds       chan func()
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	autoCancel context.CancelFunc

	// owned by the loop
	running bool
	opts    Options
	timer   clock.Timer
	gen     uint64
}

// New creates a driver; Start launches its loop
func New(p Params) *Driver {
	if p.Clock == nil {
		p.Clock = clock.NewReal()
	}
	if p.Limiter == nil {
		p.Limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if p.UploadTimeout <= 0 {
		p.UploadTimeout = 30 * time.Second
	}
	if p.Defaults.Interval <= 0 {
		p.Defaults.Interval = defaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Driver{
		logger:        p.Logger.Named("rotation"),
		queue:         p.Queue,
		surface:       p.Surface,
		catalog:       p.Catalog,
		processor:     p.Processor,
		clock:         p.Clock,
		limiter:       p.Limiter,
		matte:         p.Matte,
		uploadTimeout: p.UploadTimeout,
		retryDelay:    p.CatalogRetryDelay,
		defaults:      p.Defaults,
		autoStart:     p.AutoStart,
		events:        newBroadcaster(),
		uploads:       newUploadCache(),
		cmds:          make(chan func()),
		done:          make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
		opts:          p.Defaults,
	}
}

// NewFromConfig creates a driver from the application configuration
func NewFromConfig(
	logger *zap.Logger,
	cfg *config.AppConfig,
	q *queue.Manager,
	surface domain.DisplaySurface,
	catalog Catalog,
	proc domain.ImageProcessor,
	clk clock.Clock,
) *Driver {
	return New(Params{
		Logger:            logger,
		Queue:             q,
		Surface:           surface,
		Catalog:           catalog,
		Processor:         proc,
		Clock:             clk,
		Limiter:           rate.NewLimiter(rate.Limit(cfg.Upload.RatePerSecond), cfg.Upload.Burst),
		Matte:             cfg.Upload.Matte,
		UploadTimeout:     cfg.Upload.Timeout,
		CatalogRetryDelay: time.Second,
		Defaults: Options{
			Interval: cfg.Slideshow.Interval,
			Shuffle:  cfg.Slideshow.Shuffle,
			Category: domain.Category(cfg.Slideshow.Category),
		},
		AutoStart: cfg.Slideshow.AutoStart,
	})
}

// Start launches the event loop. It returns immediately.
func (d *Driver) Start(_ context.Context) error {
	d.logger.Info("Rotation driver starting...")
	go d.runLoop()

	if d.autoStart {
		actx, cancel := context.WithCancel(d.ctx)
		d.autoCancel = cancel
		go func() {
			if err := d.StartRotation(actx, d.defaults); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Warn("Slideshow auto-start failed", zap.Error(err))
			}
		}()
	}
	return nil
}

// Stop ends the slideshow and the event loop
func (d *Driver) Stop(ctx context.Context) error {
	d.logger.Info("Rotation driver stopping...")

	if d.autoCancel != nil {
		d.autoCancel()
	}

	running := false
	_ = d.call(ctx, func() { running = d.running })
	if running {
		if err := d.StopRotation(ctx); err != nil {
			d.logger.Warn("Failed to stop slideshow cleanly", zap.Error(err))
		}
	}

	d.cancel()
	select {
	case <-d.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	d.events.close()
	return nil
}

func (d *Driver) runLoop() {
	defer close(d.done)
	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Rotation loop stopped")
			return
		case f := <-d.cmds:
			f()
		}
	}
}

// call runs f on the loop goroutine and waits for it to finish
func (d *Driver) call(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	select {
	case d.cmds <- func() { f(); close(finished) }:
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns a stream of rotation events and a cancel function
func (d *Driver) Subscribe() (<-chan Event, func()) {
	return d.events.subscribe()
}

// StartRotation loads the pool when needed, engages native auto-rotation and
// arms the local timer
func (d *Driver) StartRotation(ctx context.Context, opts Options) error {
	d.startMu.Lock()
	defer d.startMu.Unlock()

	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if !opts.Category.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, opts.Category)
	}

	var needLoad bool
	if err := d.call(ctx, func() {
		d.queue.SetCategory(opts.Category)
		needLoad = d.queue.AvailableCount() == 0
	}); err != nil {
		return err
	}

	if needLoad {
		d.logger.Info("No artwork loaded, loading from display and providers...")
		pool := d.loadPool(ctx, opts.Category)
		if err := d.call(ctx, func() { d.queue.SetAvailablePool(pool) }); err != nil {
			return err
		}
	}

	var pool []domain.Artwork
	if err := d.call(ctx, func() { pool = d.queue.Pool() }); err != nil {
		return err
	}
	if len(pool) == 0 {
		d.logger.Warn("No artwork available to display in slideshow")
		return ErrNoArtwork
	}

	if rotator, ok := d.surface.(domain.AutoRotator); ok && hasDisplayable(pool) {
		if err := rotator.SetAutoRotation(ctx, opts.Interval, opts.Shuffle, opts.Category); err != nil {
			metrics.DisplayErrors.WithLabelValues("auto_rotation").Inc()
			d.logger.Error("Failed to enable native auto-rotation", zap.Error(err))
		} else {
			d.logger.Debug("Native auto-rotation enabled",
				zap.Duration("interval", opts.Interval),
				zap.Bool("shuffle", opts.Shuffle),
				zap.Stringer("category", opts.Category))
		}
	}

	if err := d.call(ctx, func() {
		d.queue.SetShuffle(opts.Shuffle)
		d.opts = opts
		d.running = true
		d.armTimer()
		d.observe()
	}); err != nil {
		return err
	}

	metrics.RotationActive.Set(1)
	d.events.publish(Event{Type: EventStarted, At: d.clock.Now()})
	d.logger.Info("Slideshow started",
		zap.Duration("interval", opts.Interval),
		zap.Bool("shuffle", opts.Shuffle),
		zap.Stringer("category", opts.Category),
		zap.Int("pool", len(pool)))
	return nil
}

// StopRotation cancels the timer, clears the queue and disables native
// auto-rotation. Safe to call when not running.
func (d *Driver) StopRotation(ctx context.Context) error {
	d.startMu.Lock()
	defer d.startMu.Unlock()

	var (
		opts    Options
		shuffle bool
	)
	if err := d.call(ctx, func() {
		d.running = false
		d.cancelTimer()
		d.queue.Clear()
		opts = d.opts
		shuffle = d.queue.Shuffle()
		d.observe()
	}); err != nil {
		return err
	}

	metrics.RotationActive.Set(0)

	var err error
	if rotator, ok := d.surface.(domain.AutoRotator); ok {
		if err = rotator.SetAutoRotation(ctx, 0, shuffle, opts.Category); err != nil {
			metrics.DisplayErrors.WithLabelValues("auto_rotation").Inc()
			d.logger.Error("Failed to disable native auto-rotation", zap.Error(err))
		}
	}

	d.events.publish(Event{Type: EventStopped, At: d.clock.Now()})
	d.logger.Info("Slideshow stopped")
	return err
}

// SetInterval changes the rotation interval; a running timer is re-armed
// with the new value
func (d *Driver) SetInterval(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}
	return d.call(ctx, func() {
		d.opts.Interval = interval
		if d.running {
			d.armTimer()
		}
		d.logger.Debug("Rotation interval updated", zap.Duration("interval", interval))
	})
}

// Next advances to the next artwork and displays it
func (d *Driver) Next(ctx context.Context) (domain.Artwork, error) {
	return d.advance(ctx, "next", func() (domain.Artwork, bool) { return d.queue.GetNext() })
}

// Previous goes back one entry in the history and displays it
func (d *Driver) Previous(ctx context.Context) (domain.Artwork, error) {
	return d.advance(ctx, "previous", func() (domain.Artwork, bool) { return d.queue.GetPrevious() })
}

// ShowOverlay uploads an overlay image and displays it ahead of the queue
func (d *Driver) ShowOverlay(ctx context.Context, data []byte) (domain.Artwork, error) {
	uctx, cancel := context.WithTimeout(ctx, d.uploadTimeout)
	defer cancel()

	id, err := d.surface.Upload(uctx, data, "PNG", overlayMatte)
	if err != nil {
		metrics.DisplayErrors.WithLabelValues("upload").Inc()
		return domain.Artwork{}, fmt.Errorf("failed to upload overlay: %w", err)
	}

	if registry, ok := d.surface.(domain.UploadRegistry); ok {
		if err := registry.RecordUpload(ctx, id, domain.UploadOrigin{Overlay: true}); err != nil {
			d.logger.Warn("Failed to record overlay upload", zap.String("contentId", id), zap.Error(err))
		}
	}

	overlay := domain.Artwork{ID: id, ContentID: id, Source: overlaySource, Title: "Overlay"}

	// Queue and pick in one step so a timer tick cannot take the override
	var (
		art      domain.Artwork
		ok       bool
		category domain.Category
	)
	if err := d.call(ctx, func() {
		if d.queue.AddOverlay(overlay) {
			art, ok = d.queue.GetNext()
		}
		category = d.queue.Category()
	}); err != nil {
		return domain.Artwork{}, err
	}
	if !ok {
		return domain.Artwork{}, ErrNoArtwork
	}
	return d.show(ctx, art, category, "overlay")
}

func (d *Driver) advance(ctx context.Context, trigger string, pick func() (domain.Artwork, bool)) (domain.Artwork, error) {
	var (
		art      domain.Artwork
		ok       bool
		category domain.Category
	)
	if err := d.call(ctx, func() {
		art, ok = pick()
		category = d.queue.Category()
	}); err != nil {
		return domain.Artwork{}, err
	}
	if !ok {
		d.logger.Debug("No artwork to show", zap.String("trigger", trigger))
		return domain.Artwork{}, ErrNoArtwork
	}
	return d.show(ctx, art, category, trigger)
}

// show makes art displayable if needed and selects it on the surface
func (d *Driver) show(ctx context.Context, art domain.Artwork, category domain.Category, trigger string) (domain.Artwork, error) {
	shown, err := d.ensureUploaded(ctx, art)
	if err != nil {
		d.logger.Error("Failed to prepare artwork for display",
			zap.String("id", art.ID), zap.String("source", art.Source), zap.Error(err))
		return art, err
	}

	if shown.ID != art.ID {
		if err := d.call(ctx, func() { d.queue.ReplaceArtwork(art.ID, shown) }); err != nil {
			return shown, err
		}
	}

	if err := d.surface.Select(ctx, shown.ContentID, category, true); err != nil {
		metrics.DisplayErrors.WithLabelValues("select").Inc()
		d.logger.Error("Failed to select artwork",
			zap.String("contentId", shown.ContentID), zap.String("trigger", trigger), zap.Error(err))
		return shown, fmt.Errorf("failed to select %s: %w", shown.ContentID, err)
	}

	metrics.ArtworkAdvances.WithLabelValues(trigger).Inc()
	d.events.publish(Event{Type: EventShown, Artwork: &shown, Trigger: trigger, At: d.clock.Now()})
	d.logger.Info("Artwork displayed",
		zap.String("id", shown.ID),
		zap.String("title", shown.Title),
		zap.String("source", shown.Source),
		zap.String("trigger", trigger))
	return shown, nil
}

// armTimer replaces the pending timer; loop only
func (d *Driver) armTimer() {
	d.cancelTimer()
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.opts.Interval, func() { d.onTimer(gen) })
	d.logger.Debug("Next slide scheduled", zap.Duration("in", d.opts.Interval))
}

// cancelTimer stops the pending timer and invalidates any callback already
// in flight; loop only
func (d *Driver) cancelTimer() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// onTimer runs on the timer goroutine
func (d *Driver) onTimer(gen uint64) {
	ctx := d.ctx

	var (
		art      domain.Artwork
		ok       bool
		current  bool
		category domain.Category
	)
	if err := d.call(ctx, func() {
		if !d.running || gen != d.gen {
			return
		}
		current = true
		art, ok = d.queue.GetNext()
		category = d.queue.Category()
	}); err != nil || !current {
		return
	}

	if ok {
		// Failures are logged by show; the next tick is the retry
		_, _ = d.show(ctx, art, category, "timer")
	} else {
		d.logger.Debug("No next artwork available")
	}

	_ = d.call(ctx, func() {
		if d.running && gen == d.gen {
			d.armTimer()
		}
	})
}

func (d *Driver) observe() {
	metrics.QueueSize.Set(float64(d.queue.QueueSize()))
	metrics.PoolSize.Set(float64(d.queue.AvailableCount()))
}

// Enqueue appends an artwork. An artwork given only by id is resolved
// against the pool.
func (d *Driver) Enqueue(ctx context.Context, art domain.Artwork) (bool, error) {
	var added bool
	err := d.call(ctx, func() {
		added = d.queue.Enqueue(d.resolve(art))
		d.observe()
	})
	return added, err
}

// Dequeue removes an artwork from the queue
func (d *Driver) Dequeue(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := d.call(ctx, func() {
		removed = d.queue.Dequeue(id)
		d.observe()
	})
	return removed, err
}

// SetQueue replaces the queue
func (d *Driver) SetQueue(ctx context.Context, arts []domain.Artwork) error {
	return d.call(ctx, func() {
		resolved := make([]domain.Artwork, 0, len(arts))
		for _, a := range arts {
			resolved = append(resolved, d.resolve(a))
		}
		d.queue.SetQueue(resolved)
		d.observe()
	})
}

// ClearQueue empties the queue, keeping the history
func (d *Driver) ClearQueue(ctx context.Context) error {
	return d.call(ctx, func() {
		d.queue.SetQueue(nil)
		d.observe()
	})
}

// Queue returns the queue in playback order
func (d *Driver) Queue(ctx context.Context) ([]domain.Artwork, error) {
	var arts []domain.Artwork
	err := d.call(ctx, func() { arts = d.queue.Queue() })
	return arts, err
}

func (d *Driver) SetShuffle(ctx context.Context, enabled bool) error {
	return d.call(ctx, func() { d.queue.SetShuffle(enabled) })
}

func (d *Driver) SetAutoRandom(ctx context.Context, enabled bool) error {
	return d.call(ctx, func() { d.queue.SetAutoRandom(enabled) })
}

// SetCategory changes the display category used for selection
func (d *Driver) SetCategory(ctx context.Context, c domain.Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCategory, c)
	}
	return d.call(ctx, func() {
		d.queue.SetCategory(c)
		d.opts.Category = c
	})
}

// Current returns the artwork currently displayed
func (d *Driver) Current(ctx context.Context) (domain.Artwork, bool, error) {
	return d.peek(ctx, d.queue.GetCurrent)
}

// PeekNext previews the next artwork without advancing
func (d *Driver) PeekNext(ctx context.Context) (domain.Artwork, bool, error) {
	return d.peek(ctx, d.queue.PeekNext)
}

// PeekPrevious returns the previously displayed artwork without going back
func (d *Driver) PeekPrevious(ctx context.Context) (domain.Artwork, bool, error) {
	return d.peek(ctx, d.queue.PeekPrevious)
}

func (d *Driver) peek(ctx context.Context, f func() (domain.Artwork, bool)) (domain.Artwork, bool, error) {
	var (
		art domain.Artwork
		ok  bool
	)
	err := d.call(ctx, func() { art, ok = f() })
	return art, ok, err
}

// Status returns a snapshot of the slideshow state
func (d *Driver) Status(ctx context.Context) (Status, error) {
	var st Status
	err := d.call(ctx, func() {
		st = Status{
			Running:     d.running,
			Interval:    d.opts.Interval,
			Minutes:     d.opts.Interval.Minutes(),
			Shuffle:     d.queue.Shuffle(),
			AutoRandom:  d.queue.AutoRandom(),
			Category:    d.queue.Category().String(),
			QueueSize:   d.queue.QueueSize(),
			PoolSize:    d.queue.AvailableCount(),
			HistorySize: len(d.queue.History()),
		}
		if cur, ok := d.queue.GetCurrent(); ok {
			st.Current = &cur
		}
		if next, ok := d.queue.PeekNext(); ok {
			st.Next = &next
		}
	})
	return st, err
}

// resolve fills an id-only artwork from the pool; loop only
func (d *Driver) resolve(art domain.Artwork) domain.Artwork {
	if art.Source != "" || art.ContentID != "" || art.URL != "" || art.LocalPath != "" {
		return art
	}
	for _, p := range d.queue.Pool() {
		if p.ID == art.ID || (p.OriginalID != "" && p.OriginalID == art.ID) {
			return p
		}
	}
	return art
}

func hasDisplayable(arts []domain.Artwork) bool {
	for _, a := range arts {
		if a.Displayable() {
			return true
		}
	}
	return false
}
