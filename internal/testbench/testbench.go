package testbench

import (
	"context"
	"errors"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"

	"github.com/i5heu/GoBoundedQueue/internal/queue"
)

// Config is only about concurrency: how many producers, how many consumers.
type Config struct {
	NumProducers int
	NumConsumers int
}

// Result is what one timed run measured.
type Result struct {
	Produced int64 // successful pushes
	Consumed int64 // successful pops
	Rejected int64 // pushes that hit a full queue and were retried
	Elapsed  time.Duration
}

// drainGrace bounds how long consumers keep draining after production stops.
const drainGrace = 100 * time.Millisecond

// RunTimedTest spawns producers and consumers that run for testDuration,
// counting how many messages are actually pushed/popped in that window.
// A producer that hits a full queue backs off and retries the same value;
// every such attempt counts as a rejection. Once the deadline passes
// producers stop and consumers drain whatever is left.
func RunTimedTest[T any, Q queue.Interface[T]](
	ctx context.Context,
	q Q,
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) T,
) Result {
	ctx, cancel := context.WithTimeout(ctx, testDuration)
	defer cancel()

	var (
		produced, consumed, rejected atomix.Int64
		msgIndex                     atomix.Int64
		productionDone               atomix.Bool
	)

	start := time.Now()

	go func() {
		<-ctx.Done()
		productionDone.StoreRelease(true)
	}()

	var prodWg sync.WaitGroup
	prodWg.Add(cfg.NumProducers)
	for i := 0; i < cfg.NumProducers; i++ {
		go func() {
			defer prodWg.Done()
			backoff := iox.Backoff{}
			for !productionDone.LoadAcquire() {
				idx := msgIndex.AddAcqRel(1) - 1
				msg := valueGenerator(int(idx))
				for {
					err := q.Push(msg)
					if err == nil {
						backoff.Reset()
						produced.AddAcqRel(1)
						break
					}
					if !errors.Is(err, iox.ErrWouldBlock) || productionDone.LoadAcquire() {
						break
					}
					rejected.AddAcqRel(1)
					backoff.Wait()
				}
			}
		}()
	}

	var consWg sync.WaitGroup
	consWg.Add(cfg.NumConsumers)
	for i := 0; i < cfg.NumConsumers; i++ {
		go func() {
			defer consWg.Done()
			sw := spin.Wait{}
			for !productionDone.LoadAcquire() {
				if _, err := q.Pop(); err == nil {
					consumed.AddAcqRel(1)
					continue
				}
				sw.Once()
			}
			drainDeadline := time.Now().Add(drainGrace)
			for time.Now().Before(drainDeadline) {
				if _, err := q.Pop(); err != nil {
					return
				}
				consumed.AddAcqRel(1)
			}
		}()
	}

	<-ctx.Done()
	prodWg.Wait()
	consWg.Wait()

	return Result{
		Produced: produced.LoadRelaxed(),
		Consumed: consumed.LoadRelaxed(),
		Rejected: rejected.LoadRelaxed(),
		Elapsed:  time.Since(start),
	}
}

// BurstResult is what one RunBurst measured.
type BurstResult struct {
	Pushed   int64
	Rejected int64
}

// RunBurst has cfg.NumProducers goroutines each push perProducer values
// with no consumer running. Pushes that hit a full queue are counted, not
// retried. Consumers in cfg are ignored.
func RunBurst[T any, Q queue.Interface[T]](
	q Q,
	cfg Config,
	perProducer int,
	valueGenerator func(producer, seq int) T,
) BurstResult {
	var pushed, rejected atomix.Int64

	var wg sync.WaitGroup
	wg.Add(cfg.NumProducers)
	for p := 0; p < cfg.NumProducers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Push(valueGenerator(p, i)); err != nil {
					rejected.AddAcqRel(1)
					continue
				}
				pushed.AddAcqRel(1)
			}
		}(p)
	}
	wg.Wait()

	return BurstResult{
		Pushed:   pushed.LoadRelaxed(),
		Rejected: rejected.LoadRelaxed(),
	}
}
