package uploads

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"brandvault/internal/utils/logger"

	"github.com/google/uuid"
)

type ItemStatus string

const (
	StatusPending   ItemStatus = "pending"
	StatusUploading ItemStatus = "uploading"
	StatusSuccess   ItemStatus = "success"
	StatusError     ItemStatus = "error"
)

// statusRank orders the state machine; transitions never move backward.
var statusRank = map[ItemStatus]int{
	StatusPending:   0,
	StatusUploading: 1,
	StatusSuccess:   2,
	StatusError:     2,
}

// Item is the transient, in-memory record of one file moving through the
// pipeline. It is never persisted.
type Item struct {
	ID           string
	OriginalName string
	SafeName     string
	Size         int64
	ContentType  string
	Status       ItemStatus
	Progress     int
	TempPath     string
	PublicURL    string
	ErrorMessage string
}

// ProgressFunc receives integer percentages 0-100 as bytes go out.
type ProgressFunc func(itemID string, percent int)

// Pipeline tracks a batch of concurrent uploads into the temporary prefix.
// All state is mutated under one mutex; the uploads themselves run in
// independent goroutines and complete in arbitrary order.
type Pipeline struct {
	store      ObjectStore // nil means storage is not configured
	tempPrefix string
	onProgress ProgressFunc
	simDelay   time.Duration

	mu      sync.Mutex
	items   map[string]*Item
	order   []string
	cancels map[string]context.CancelFunc

	wg  sync.WaitGroup
	log *logger.Logger
}

type Option func(*Pipeline)

// WithProgress registers the per-item progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithSimulatedDelay overrides the fake upload latency used when no object
// store is configured.
func WithSimulatedDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.simDelay = d }
}

// NewPipeline creates a pipeline. A nil store switches the pipeline into
// simulated mode for development without storage credentials.
func NewPipeline(store ObjectStore, tempPrefix string, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      store,
		tempPrefix: tempPrefix,
		simDelay:   1500 * time.Millisecond,
		items:      make(map[string]*Item),
		cancels:    make(map[string]context.CancelFunc),
		log:        logger.New("upload_pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tempPrefix == "" {
		p.tempPrefix = "temp-uploads"
	}
	return p
}

// Add registers a file and immediately starts its temp upload. Files upload
// independently; a failure in one never touches its siblings.
func (p *Pipeline) Add(ctx context.Context, name string, size int64, contentType string, body io.Reader) *Item {
	item := &Item{
		ID:           uuid.New().String(),
		OriginalName: name,
		SafeName:     SanitizeFileName(name),
		Size:         size,
		ContentType:  contentType,
		Status:       StatusPending,
	}

	uploadCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.items[item.ID] = item
	p.order = append(p.order, item.ID)
	p.cancels[item.ID] = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(uploadCtx, item.ID, body)

	return item
}

func (p *Pipeline) run(ctx context.Context, id string, body io.Reader) {
	defer p.wg.Done()

	if !p.advance(id, StatusUploading) {
		return
	}

	if p.store == nil {
		p.runSimulated(ctx, id)
		return
	}

	p.mu.Lock()
	item, ok := p.items[id]
	if !ok {
		p.mu.Unlock()
		return
	}
	key := fmt.Sprintf("%s/%s-%s", p.tempPrefix, id, item.SafeName)
	// Track the key before the first byte goes out so cancellation can
	// clean up a partially written object.
	item.TempPath = key
	size := item.Size
	contentType := item.ContentType
	p.mu.Unlock()

	reader := &progressReader{
		reader: body,
		total:  size,
		report: func(percent int) { p.setProgress(id, percent) },
	}

	url, err := p.store.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		if ctx.Err() != nil {
			// Removed or torn down while in flight; cleanup already handled.
			return
		}
		p.fail(id, "Falha no envio do arquivo")
		_ = p.log.Error("temp upload failed", err)
		return
	}

	p.mu.Lock()
	if item, ok := p.items[id]; ok {
		item.PublicURL = url
	}
	p.mu.Unlock()

	p.advance(id, StatusSuccess)
	p.setProgress(id, 100)
}

// runSimulated stands in for the object store in development mode: a fixed
// delay and a synthetic URL.
func (p *Pipeline) runSimulated(ctx context.Context, id string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.simDelay):
	}

	p.mu.Lock()
	if item, ok := p.items[id]; ok {
		item.PublicURL = fmt.Sprintf("memory://%s/%s", id, item.SafeName)
	}
	p.mu.Unlock()

	p.advance(id, StatusSuccess)
	p.setProgress(id, 100)
}

// advance moves an item forward in the state machine. Backward or sideways
// transitions are ignored, which also makes late goroutine writes after a
// Remove harmless.
func (p *Pipeline) advance(id string, to ItemStatus) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[id]
	if !ok {
		return false
	}
	if statusRank[to] <= statusRank[item.Status] {
		return false
	}
	item.Status = to
	return true
}

func (p *Pipeline) fail(id, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.items[id]
	if !ok {
		return
	}
	if statusRank[StatusError] <= statusRank[item.Status] {
		return
	}
	item.Status = StatusError
	item.ErrorMessage = message
}

func (p *Pipeline) setProgress(id string, percent int) {
	p.mu.Lock()
	item, ok := p.items[id]
	if ok && percent > item.Progress {
		item.Progress = percent
	}
	fn := p.onProgress
	p.mu.Unlock()

	if ok && fn != nil {
		fn(id, percent)
	}
}

// Item returns a snapshot of one item.
func (p *Pipeline) Item(id string) (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.items[id]
	if !ok {
		return Item{}, false
	}
	return *item, true
}

// Items returns snapshots in insertion order.
func (p *Pipeline) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Item, 0, len(p.order))
	for _, id := range p.order {
		if item, ok := p.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out
}

// Remove drops an item from any state: the in-flight request is aborted and
// an already-written temp object gets one best-effort delete.
func (p *Pipeline) Remove(id string) {
	p.mu.Lock()
	item, ok := p.items[id]
	if !ok {
		p.mu.Unlock()
		return
	}
	cancel := p.cancels[id]
	tempPath := item.TempPath
	delete(p.items, id)
	delete(p.cancels, id)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	store := p.store
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if tempPath != "" && store != nil {
		// Fire and forget; leakage here is non-critical.
		go func() {
			if err := store.Delete(context.Background(), tempPath); err != nil {
				p.log.Warn("temp object cleanup failed for %s: %v", tempPath, err)
			}
		}()
	}
}

// Close aborts everything outstanding and sweeps all tracked temp objects in
// one batched delete. Called on form teardown.
func (p *Pipeline) Close() {
	p.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(p.cancels))
	for _, cancel := range p.cancels {
		cancels = append(cancels, cancel)
	}
	p.cancels = make(map[string]context.CancelFunc)

	paths := make([]string, 0, len(p.items))
	for _, item := range p.items {
		if item.TempPath != "" {
			paths = append(paths, item.TempPath)
		}
	}
	p.items = make(map[string]*Item)
	p.order = nil
	store := p.store
	p.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}

	if len(paths) > 0 && store != nil {
		if err := store.Delete(context.Background(), paths...); err != nil {
			p.log.Warn("temp sweep on close failed: %v", err)
		}
	}
}

// Wait blocks until all upload goroutines have returned.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// progressReader reports integer upload percentages as the store consumes
// the body.
type progressReader struct {
	reader io.Reader
	total  int64
	read   int64
	last   int
	report func(percent int)
}

func (r *progressReader) Read(b []byte) (int, error) {
	n, err := r.reader.Read(b)
	if n > 0 && r.total > 0 {
		r.read += int64(n)
		percent := int(r.read * 100 / r.total)
		if percent > 100 {
			percent = 100
		}
		if percent != r.last {
			r.last = percent
			if r.report != nil {
				r.report(percent)
			}
		}
	}
	return n, err
}
