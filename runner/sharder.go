package runner

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
	"github.com/cryptonstudio/ladder-matching-engine/providers/feed"
)

const (
	defaultBufferSize = 64
	defaultBatchSize  = 256
)

// Option configures the Sharder.
type Option func(*Sharder)

// WithMetrics enables prometheus metrics of processed instructions.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Sharder) { s.metrics = metrics }
}

// WithBufferSize sets capacity of every shard channel in batches.
func WithBufferSize(size int) Option {
	return func(s *Sharder) {
		if size > 0 {
			s.bufferSize = size
		}
	}
}

// WithBatchSize sets amount of instructions sent to a shard at once by stream producers.
func WithBatchSize(size int) Option {
	return func(s *Sharder) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// Sharder runs every order book of the engine in its own goroutine.
// Instructions of an instrument are applied in the order they were dispatched,
// so every instrument must be dispatched by a single producer.
type Sharder struct {
	engine  *matching.Engine
	logger  *zap.Logger
	metrics *Metrics

	bufferSize int
	batchSize  int

	// Shards indexed by symbol id, nil for missing order books
	shards []*shard
	group  *errgroup.Group
	ctx    context.Context
}

// NewSharder creates and returns new Sharder instance for all order books of the engine.
// Order books must not be added or deleted while the sharder is running.
func NewSharder(engine *matching.Engine, logger *zap.Logger, options ...Option) *Sharder {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sharder{
		engine:     engine,
		logger:     logger,
		bufferSize: defaultBufferSize,
		batchSize:  defaultBatchSize,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Start launches one worker per order book.
func (s *Sharder) Start(ctx context.Context) error {
	if s.group != nil {
		return ErrAlreadyStarted
	}
	s.group, s.ctx = errgroup.WithContext(ctx)

	symbols := s.engine.Symbols()
	for _, symbol := range symbols {
		if int(symbol.ID()) >= len(s.shards) {
			shards := make([]*shard, symbol.ID()+1)
			copy(shards, s.shards)
			s.shards = shards
		}
		sh := &shard{
			engine:  s.engine,
			input:   make(chan []feed.Instruction, s.bufferSize),
			metrics: s.metrics.instrument(symbol.Name()),
			result:  Result{SymbolID: symbol.ID(), Name: symbol.Name()},
		}
		s.shards[symbol.ID()] = sh
		s.group.Go(func() error {
			return sh.run(s.ctx)
		})
	}

	s.logger.Info("sharder started", zap.Int("shards", len(symbols)))
	return nil
}

// Dispatch sends instructions of a single instrument to its shard.
// Dispatch blocks while the shard channel is full and fails if the context is done.
// NOTE: Dispatch must not be called after Stop.
func (s *Sharder) Dispatch(ctx context.Context, symbolID uint32, batch []feed.Instruction) error {
	if s.group == nil {
		return ErrNotStarted
	}
	if int(symbolID) >= len(s.shards) || s.shards[symbolID] == nil {
		return fmt.Errorf("%w: symbol %d", ErrShardNotFound, symbolID)
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}
	select {
	case s.shards[symbolID].input <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// Handler returns the stream handler which groups instructions in batches and dispatches them.
// The handler must be flushed after the stream is processed.
// NOTE: Not thread-safe, every producer needs its own handler.
func (s *Sharder) Handler(ctx context.Context) *StreamHandler {
	return &StreamHandler{
		ctx:     ctx,
		sharder: s,
		pending: make([][]feed.Instruction, len(s.shards)),
	}
}

// Stop closes all shard channels, waits for workers and returns results ordered by symbol id.
func (s *Sharder) Stop() ([]Result, error) {
	if s.group == nil {
		return nil, ErrNotStarted
	}
	for _, sh := range s.shards {
		if sh != nil {
			close(sh.input)
		}
	}
	err := s.group.Wait()

	results := make([]Result, 0, len(s.shards))
	for _, sh := range s.shards {
		if sh == nil {
			continue
		}
		results = append(results, sh.result)
		s.logger.Debug("shard finished",
			zap.String("instrument", sh.result.Name),
			zap.Int64("instructions", sh.result.Instructions),
			zap.Int64("failures", sh.result.Failures()),
			zap.Duration("elapsed", sh.result.Elapsed),
		)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].SymbolID < results[j].SymbolID })

	s.shards = nil
	s.group = nil
	if err != nil {
		s.logger.Error("sharder stopped", zap.Error(err))
		return results, err
	}
	s.logger.Info("sharder stopped", zap.Int("shards", len(results)))
	return results, nil
}

// Run processes every stream in its own goroutine and returns results of all shards.
// Every instrument must be present in a single stream only.
func (s *Sharder) Run(ctx context.Context, directory *feed.Directory, streams ...io.Reader) ([]Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.Start(ctx); err != nil {
		return nil, err
	}

	producers, producersCtx := errgroup.WithContext(ctx)
	for i, stream := range streams {
		producers.Go(func() error {
			handler := s.Handler(producersCtx)
			if err := feed.NewProcessor(handler, directory).Process(stream); err != nil {
				return fmt.Errorf("stream %d: %w", i, err)
			}
			return handler.Flush()
		})
	}
	err := producers.Wait()
	if err != nil {
		cancel()
	}

	results, stopErr := s.Stop()
	if err != nil {
		return results, err
	}
	return results, stopErr
}

////////////////////////////////////////////////////////////////

// StreamHandler is a feed handler dispatching parsed instructions to the sharder.
type StreamHandler struct {
	ctx     context.Context
	sharder *Sharder
	pending [][]feed.Instruction
}

var _ feed.Handler = &StreamHandler{}

func (h *StreamHandler) OnAddInstruction(ins feed.Instruction) error {
	return h.push(ins)
}

func (h *StreamHandler) OnCancelInstruction(ins feed.Instruction) error {
	return h.push(ins)
}

func (h *StreamHandler) OnEditInstruction(ins feed.Instruction) error {
	return h.push(ins)
}

// Flush dispatches all pending instructions.
func (h *StreamHandler) Flush() error {
	for id, batch := range h.pending {
		if len(batch) == 0 {
			continue
		}
		if err := h.sharder.Dispatch(h.ctx, uint32(id), batch); err != nil {
			return err
		}
		h.pending[id] = nil
	}
	return nil
}

func (h *StreamHandler) push(ins feed.Instruction) error {
	id := int(ins.SymbolID)
	if id >= len(h.pending) {
		return fmt.Errorf("%w: symbol %d", ErrShardNotFound, ins.SymbolID)
	}
	if h.pending[id] == nil {
		h.pending[id] = make([]feed.Instruction, 0, h.sharder.batchSize)
	}
	h.pending[id] = append(h.pending[id], ins)
	if len(h.pending[id]) < h.sharder.batchSize {
		return nil
	}
	// The batch is owned by the shard after dispatching
	batch := h.pending[id]
	h.pending[id] = nil
	return h.sharder.Dispatch(h.ctx, ins.SymbolID, batch)
}

////////////////////////////////////////////////////////////////

// shard owns a single order book, only its worker goroutine touches the order book.
type shard struct {
	engine  *matching.Engine
	input   chan []feed.Instruction
	metrics *instrumentMetrics
	result  Result
}

func (sh *shard) run(ctx context.Context) error {
	var first, last time.Time
	defer func() {
		if !first.IsZero() {
			sh.result.Elapsed = last.Sub(first)
		}
	}()

	for {
		select {
		case batch, ok := <-sh.input:
			if !ok {
				// nil unless the sharder was canceled
				return ctx.Err()
			}
			if first.IsZero() {
				first = time.Now()
			}
			for i := range batch {
				sh.apply(&batch[i])
			}
			last = time.Now()
			if sh.metrics != nil {
				if orderBook := sh.engine.OrderBook(sh.result.SymbolID); orderBook != nil {
					sh.metrics.orders.Set(float64(orderBook.Size()))
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (sh *shard) apply(ins *feed.Instruction) {
	var start time.Time
	if sh.metrics != nil {
		start = time.Now()
	}

	r := &sh.result
	r.Instructions++
	metric, failed := -1, false
	switch ins.Type {
	case feed.InstructionTypeAdd:
		r.Adds++
		metric = metricAdd
		if err := sh.engine.ProcessOrder(ins.SymbolID, ins.Side, ins.Price, ins.Quantity, ins.Timestamp, ins.ID); err != nil {
			r.RejectedAdds++
			failed = true
		}
	case feed.InstructionTypeCancel:
		r.Cancels++
		metric = metricCancel
		if !sh.engine.CancelOrder(ins.SymbolID, ins.ID) {
			r.FailedCancels++
			failed = true
		}
	case feed.InstructionTypeEdit:
		r.Edits++
		metric = metricEdit
		if !sh.engine.EditOrder(ins.SymbolID, ins.ID, ins.Price, ins.Quantity) {
			r.FailedEdits++
			failed = true
		}
	}

	if sh.metrics == nil || metric < 0 {
		return
	}
	sh.metrics.instructions[metric].Inc()
	if failed {
		sh.metrics.failures[metric].Inc()
	}
	sh.metrics.latency.Observe(time.Since(start).Seconds())
}
