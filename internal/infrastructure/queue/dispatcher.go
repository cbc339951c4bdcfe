package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pressroom/blog-system/internal/api/metrics"
	"github.com/pressroom/blog-system/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ViewDispatcher routes view registrations to a fixed set of workers using
// consistent hashing on the post id, guaranteeing per-post ordering of the
// counter writes while keeping the read path non-blocking.
type ViewDispatcher struct {
	workers []chan ports.PostViewInput
	service ports.PostService
	log     zerolog.Logger
}

// NewViewDispatcher creates a ViewDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewViewDispatcher(numWorkers int, service ports.PostService, log zerolog.Logger) *ViewDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &ViewDispatcher{
		workers: make([]chan ports.PostViewInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.PostViewInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *ViewDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a view to the worker responsible for its post. The call is
// non-blocking up to channelBuffer capacity.
func (d *ViewDispatcher) Enqueue(view ports.PostViewInput) {
	idx := d.shardIndex(view.PostID)
	d.workers[idx] <- view
	metrics.ViewQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a post id deterministically to a worker index.
func (d *ViewDispatcher) shardIndex(postID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(postID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *ViewDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.PostViewInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case view, ok := <-ch:
			if !ok {
				return
			}
			metrics.ViewQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.service.RegisterView(ctx, view); err != nil {
				d.log.Error().Err(err).
					Str("post_id", view.PostID).
					Int("worker_id", id).
					Msg("view registration failed")
			}
		}
	}
}
