package usecase

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce matches the delay the cashout form waits after a keystroke.
const DefaultDebounce = 500 * time.Millisecond

type ConversionInput struct {
	Crypto string  `json:"crypto"`
	Fiat   string  `json:"fiat"`
	Amount float64 `json:"amount"`
}

// LiveConversion is one delivered result. Display is "0.00" when Err is set.
type LiveConversion struct {
	Seq     uint64
	Input   ConversionInput
	Result  ConversionResult
	Display string
	Err     error
}

// LiveQuoter debounces a stream of inputs and delivers conversions with
// last-input-wins ordering: a new Submit cancels whatever is pending or in
// flight, and a result is only delivered if no newer input arrived meanwhile.
type LiveQuoter struct {
	uc       QuoteUsecase
	debounce time.Duration
	out      chan LiveConversion

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

func NewLiveQuoter(uc QuoteUsecase, debounce time.Duration) *LiveQuoter {
	if debounce < 0 {
		debounce = 0
	}
	return &LiveQuoter{
		uc:       uc,
		debounce: debounce,
		out:      make(chan LiveConversion, 1),
	}
}

// Results is closed by Close.
func (l *LiveQuoter) Results() <-chan LiveConversion {
	return l.out
}

func (l *LiveQuoter) Submit(ctx context.Context, in ConversionInput) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.wg.Add(1)
	go l.run(runCtx, seq, in)
	return seq
}

func (l *LiveQuoter) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()

	l.wg.Wait()
	close(l.out)
}

func (l *LiveQuoter) run(ctx context.Context, seq uint64, in ConversionInput) {
	defer l.wg.Done()

	timer := time.NewTimer(l.debounce)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	result, err := l.uc.Convert(ctx, in.Crypto, in.Fiat, in.Amount)
	l.deliver(LiveConversion{
		Seq:     seq,
		Input:   in,
		Result:  result,
		Display: DisplayAmount(result.ReceiveAmount, err),
		Err:     err,
	})
}

func (l *LiveQuoter) deliver(c LiveConversion) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || c.Seq != l.seq {
		return
	}
	select {
	case l.out <- c:
	default:
		// an undelivered older result is superseded by this one
		select {
		case <-l.out:
		default:
		}
		l.out <- c
	}
}
