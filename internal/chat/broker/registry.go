package broker

import (
	"errors"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/wtask/filechat/internal/chat/message"
)

// Identity - transport-assigned identity of connected client.
// Port is used as human-facing client ID.
type Identity struct {
	Host string
	Port int
}

func (id Identity) String() string {
	return net.JoinHostPort(id.Host, strconv.Itoa(id.Port))
}

// Identifier - resolves identity of accepted connection.
type Identifier func(net.Conn) (Identity, error)

// RemoteIdentity - identity from remote address of TCP connection.
func RemoteIdentity(conn net.Conn) (Identity, error) {
	if conn == nil {
		return Identity{}, errors.New("broker.RemoteIdentity: conn is nil")
	}
	host, port, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return Identity{}, err
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Host: host, Port: p}, nil
}

type client struct {
	id   Identity
	conn net.Conn
	// wmu - serializes writes into conn from different handlers
	wmu       sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func (c *client) send(e message.Envelope) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.conn.Write(message.Encode(e))
	return err
}

// stream - gives exclusive write access to conn for the whole streaming,
// so no envelope of other handler gets between file bytes.
func (c *client) stream(f func(w io.Writer) error) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return f(c.conn)
}

func (c *client) close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

type registry struct {
	mu   sync.RWMutex
	list map[Identity]*client
}

func newRegistry() *registry {
	return &registry{
		list: make(map[Identity]*client),
	}
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

func (r *registry) add(c *client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.list[c.id]; ok {
		return false
	}
	r.list[c.id] = c
	return true
}

func (r *registry) remove(id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.list, id)
}

func (r *registry) lookupPort(port int) (*client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, c := range r.list {
		if id.Port == port {
			return c, true
		}
	}
	return nil, false
}

// snapshot - copy of registered clients, safe to use for I/O after the lock is released.
func (r *registry) snapshot() []*client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*client, 0, len(r.list))
	for _, c := range r.list {
		list = append(list, c)
	}
	return list
}
