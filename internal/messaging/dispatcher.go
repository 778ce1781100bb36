package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher delivers queued messages off the webhook path. A single worker
// preserves per-enqueue order; a send failure is logged and never affects
// the already-sent primary response.
type Dispatcher struct {
	sender  Sender
	log     *logrus.Logger
	jobs    chan job
	done    chan struct{}
	timeout time.Duration
	once    sync.Once
}

type job struct {
	to    string
	parts []string
}

func NewDispatcher(sender Sender, log *logrus.Logger, sendTimeout time.Duration) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		log:     log,
		jobs:    make(chan job, 64),
		done:    make(chan struct{}),
		timeout: sendTimeout,
	}
	go d.run()
	return d
}

// Enqueue hands parts to the worker without blocking the caller. A full
// queue drops the job with a log line rather than stalling the webhook.
func (d *Dispatcher) Enqueue(to string, parts ...string) {
	if len(parts) == 0 {
		return
	}
	select {
	case d.jobs <- job{to: to, parts: parts}:
	default:
		d.log.WithFields(logrus.Fields{"to": to, "parts": len(parts)}).
			Warn("messaging queue full, dropping overflow parts")
	}
}

// Close stops intake and waits for queued sends to finish.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.jobs) })
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.jobs {
		for i, part := range j.parts {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			err := d.sender.Send(ctx, j.to, part)
			cancel()
			if err != nil {
				d.log.WithError(err).WithFields(logrus.Fields{
					"to":   j.to,
					"part": i + 1,
				}).Error("direct send failed")
			}
		}
	}
}
