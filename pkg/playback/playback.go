package playback

import (
	"io"
	"sync"
	"time"
)

// Controller consumes the advice byte stream and drives the visible text.
// Two modes, fixed at construction from the animation speed:
//
//   - Instant (speed 0): the whole stream is buffered; the visible text is
//     set once at end-of-stream and the loading indicator stays on until
//     then.
//   - Paced (speed 1..100): as soon as the first fragment decodes, the
//     loading indicator turns off and a reveal loop pops one rune at a
//     time off an internal queue, sleeping RevealDelay between runes. The
//     decoder appends to the queue concurrently and always restarts the
//     loop after enqueueing, so a drain racing the final fragment cannot
//     strand undisplayed text. A reconciliation step at end-of-stream
//     force-sets the visible text to the full decoded response as a final
//     guard on the invariant.
//
// The visible text grows monotonically within one response. Exactly one
// goroutine (the reveal loop) extends it in paced mode; all state is
// guarded by one mutex.
type Controller struct {
	mu        sync.Mutex
	instant   bool
	delay     time.Duration
	dec       decoder
	queue     []rune
	visible   []rune
	full      []rune
	loading   bool
	eof       bool
	revealing bool
	closed    bool
	gen       int
	done      chan struct{}
	updates   chan struct{}
}

// RevealDelay maps an animation speed in 1..100 to the pause between
// revealed characters.
func RevealDelay(speed int) time.Duration {
	d := 110 - speed
	if d < 10 {
		d = 10
	}
	return time.Duration(d) * time.Millisecond
}

func New(animationSpeed int) *Controller {
	return &Controller{
		instant: animationSpeed <= 0,
		delay:   RevealDelay(animationSpeed),
		loading: true,
		done:    make(chan struct{}),
		updates: make(chan struct{}, 1),
	}
}

// Play reads the stream to completion, feeding the controller, then blocks
// until the reveal queue has drained (or the controller was reset). The
// returned error is the read error, if any; the bytes that did arrive are
// still revealed.
func (c *Controller) Play(r io.Reader) error {
	buf := make([]byte, 512)
	var readErr error
	for {
		n, err := r.Read(buf)
		if n > 0 {
			c.Feed(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			readErr = err
			break
		}
	}
	c.Finish()
	<-c.done
	return readErr
}

// Feed decodes one network fragment and queues its runes for reveal.
// Called only from the stream-reading goroutine.
func (c *Controller) Feed(p []byte) {
	runes := c.dec.decode(p)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.full = append(c.full, runes...)

	if c.instant || len(runes) == 0 {
		c.mu.Unlock()
		return
	}

	c.queue = append(c.queue, runes...)
	c.loading = false
	c.wakeRevealLocked()
	c.mu.Unlock()
	c.notify()
}

// Finish marks end-of-stream. In instant mode the full text becomes
// visible in one update; in paced mode the reveal loop drains the queue
// and then closes out.
func (c *Controller) Finish() {
	rest := c.dec.flush()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.full = append(c.full, rest...)
	c.eof = true

	if c.instant {
		c.visible = append([]rune(nil), c.full...)
		c.loading = false
		c.closeLocked()
		c.mu.Unlock()
		c.notify()
		return
	}

	c.queue = append(c.queue, rest...)
	c.wakeRevealLocked()
	c.mu.Unlock()
}

func (c *Controller) wakeRevealLocked() {
	if !c.revealing {
		c.revealing = true
		go c.reveal(c.gen)
	}
}

// reveal is the paced loop: pop one rune, append it, sleep, repeat. It
// parks (revealing=false) when the queue empties before end-of-stream;
// the decoder restarts it on the next enqueue.
func (c *Controller) reveal(gen int) {
	for {
		c.mu.Lock()
		if c.closed || c.gen != gen {
			c.mu.Unlock()
			return
		}

		if len(c.queue) == 0 {
			if c.eof {
				// Drained after end-of-stream: reconcile against the
				// authoritative decoded text before closing out.
				if string(c.visible) != string(c.full) {
					c.visible = append([]rune(nil), c.full...)
				}
				c.loading = false
				c.closeLocked()
				c.mu.Unlock()
				c.notify()
				return
			}
			c.revealing = false
			c.mu.Unlock()
			return
		}

		r := c.queue[0]
		c.queue = c.queue[1:]
		c.visible = append(c.visible, r)
		d := c.delay
		c.mu.Unlock()
		c.notify()
		time.Sleep(d)
	}
}

// Snapshot returns the currently visible text and the loading indicator.
func (c *Controller) Snapshot() (visibleText string, loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.visible), c.loading
}

// Updates signals (coalesced) whenever the observable state changes.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Done is closed when the response has been fully revealed or the
// controller was reset.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Reset discards the unsaved response. An in-flight stream read is not
// aborted, but anything it delivers afterwards is ignored.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.gen++
	c.queue = nil
	c.visible = nil
	c.full = nil
	c.loading = false
	c.revealing = false
	c.closeLocked()
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) closeLocked() {
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
