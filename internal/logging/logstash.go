package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogstashConfig tunes the Logstash mirror. Zero values fall back to the
// defaults below.
type LogstashConfig struct {
	Addr          string
	DialTimeout   time.Duration
	WriteTimeout  time.Duration
	RetryInterval time.Duration
	QueueSize     int
}

func (c LogstashConfig) withDefaults() LogstashConfig {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 2 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = time.Second
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 5 * time.Second
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	return c
}

// LogstashShipper is the io.Writer behind the slog JSON handler's Logstash
// mirror. The handler writes one record per call; records are queued and a
// single goroutine owns the TCP connection. Records that do not fit in the
// queue, or arrive while Logstash is unreachable, are dropped and counted.
type LogstashShipper struct {
	cfg     LogstashConfig
	queue   chan []byte
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

func NewLogstashShipper(cfg LogstashConfig) (*LogstashShipper, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("logstash: empty address")
	}
	cfg = cfg.withDefaults()

	s := &LogstashShipper{
		cfg:     cfg,
		queue:   make(chan []byte, cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Write queues one record and never waits on the network.
func (s *LogstashShipper) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	select {
	case <-s.done:
		return 0, io.ErrClosedPipe
	default:
	}

	record := make([]byte, len(p), len(p)+1)
	copy(record, p)
	if record[len(record)-1] != '\n' {
		record = append(record, '\n')
	}

	select {
	case s.queue <- record:
	default:
		s.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped reports how many records never reached Logstash.
func (s *LogstashShipper) Dropped() int64 {
	return s.dropped.Load()
}

// Close stops accepting records, sends what is already queued and closes
// the connection.
func (s *LogstashShipper) Close() error {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
	return nil
}

func (s *LogstashShipper) run() {
	defer close(s.stopped)

	l := &link{cfg: s.cfg}
	defer l.close()

	for {
		select {
		case record := <-s.queue:
			if !l.send(record) {
				s.dropped.Add(1)
			}
		case <-s.done:
			for {
				select {
				case record := <-s.queue:
					if !l.send(record) {
						s.dropped.Add(1)
					}
				default:
					return
				}
			}
		}
	}
}

// link is the shipper's connection state. Only the run goroutine touches it.
type link struct {
	cfg       LogstashConfig
	conn      net.Conn
	nextRetry time.Time
}

func (l *link) send(record []byte) bool {
	if l.conn == nil {
		if time.Now().Before(l.nextRetry) {
			return false
		}
		conn, err := net.DialTimeout("tcp", l.cfg.Addr, l.cfg.DialTimeout)
		if err != nil {
			l.nextRetry = time.Now().Add(l.cfg.RetryInterval)
			return false
		}
		l.conn = conn
	}

	_ = l.conn.SetWriteDeadline(time.Now().Add(l.cfg.WriteTimeout))
	if _, err := l.conn.Write(record); err != nil {
		l.close()
		l.nextRetry = time.Now().Add(l.cfg.RetryInterval)
		return false
	}
	return true
}

func (l *link) close() {
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
}
