package remote

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/skyline/internal/heightfield"
	"github.com/Faultbox/skyline/internal/landscape"
)

const (
	// Messages queued from the reader before it blocks.
	inboundBufferSize = 16

	defaultMaxMessageSize = 4096
	defaultWriteWait      = 10 * time.Second
	defaultPongWait       = 60 * time.Second
)

// Options configures a Server.
type Options struct {
	Landscape landscape.LandscapeOptions // Layers is ignored; see Layers below

	// Layers returns the starting layers of a new session.
	Layers func() []landscape.Options
	// Source returns the displacement source of a new session. Nil uses a
	// clock-seeded uniform source.
	Source func() heightfield.Source

	MaxMessageSize int64
	WriteWait      time.Duration // time allowed to write a message
	PongWait       time.Duration // time allowed to read the next pong
}

// Server upgrades HTTP requests to websocket sessions, each with its own
// landscape.
type Server struct {
	opts     Options
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a Server. A nil logger disables logging.
func NewServer(opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaultMaxMessageSize
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = defaultWriteWait
	}
	if opts.PongWait <= 0 {
		opts.PongWait = defaultPongWait
	}

	return &Server{
		opts: opts,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			HandshakeTimeout: time.Second,
			ReadBufferSize:   int(opts.MaxMessageSize),
			WriteBufferSize:  16 * 1024,
		},
	}
}

// pingPeriod must stay below PongWait.
func (s *Server) pingPeriod() time.Duration {
	return (s.opts.PongWait * 8) / 10
}

func (s *Server) newLandscape() (*landscape.Landscape, error) {
	lsOpts := s.opts.Landscape
	lsOpts.Layers = nil
	if s.opts.Layers != nil {
		lsOpts.Layers = s.opts.Layers()
	}

	var src heightfield.Source
	if s.opts.Source != nil {
		src = s.opts.Source()
	}
	return landscape.New(lsOpts, src, s.log.Named("landscape"))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ls, err := s.newLandscape()
	if err != nil {
		s.log.Error("building landscape", zap.Error(err))
		http.Error(w, "landscape unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Debug("upgrade failed", zap.Error(err))
		return
	}

	log := s.log.With(zap.String("peer", conn.RemoteAddr().String()))
	log.Info("session opened", zap.Int("layers", len(ls.Layers())))

	c := &connection{
		conn:    conn,
		session: NewSession(ls, log),
		log:     log,
		opts:    s.opts,
		ping:    s.pingPeriod(),
	}
	c.run()
	log.Info("session closed")
}
