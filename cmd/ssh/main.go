package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/shootblitz/internal/config"
	"github.com/tomz197/shootblitz/internal/draw"
	"github.com/tomz197/shootblitz/internal/haptic"
	"github.com/tomz197/shootblitz/internal/hub"
	"github.com/tomz197/shootblitz/internal/loop"
	loopconfig "github.com/tomz197/shootblitz/internal/loop/config"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	shutdownWait       = 15.0 // Seconds players get to leave before the server closes
)

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	maxSessions := config.GetEnvInt("SHOOT_MAX_SESSIONS", 0)
	fps := config.GetEnvInt("SHOOT_FPS", loopconfig.DefaultFPS)
	wait := time.Duration(config.GetEnvFloat("SHOOT_SHUTDOWN_WAIT", shutdownWait) * float64(time.Second))
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "maxSessions", maxSessions, "fps", fps, "shutdownWait", wait)

	sessions := hub.New(maxSessions, logger)
	g := &game{hub: sessions, logger: logger, fps: fps}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "sessions", sessions.Count())

	// Notify players and wait for them to disconnect
	if remaining := sessions.Shutdown(wait); remaining > 0 {
		logger.Warn("sessions still connected after shutdown wait", "sessions", remaining)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// game serves one independent game per SSH session.
type game struct {
	hub    *hub.Hub
	logger *log.Logger
	fps    int
}

// middleware handles SSH sessions and runs the game.
func (g *game) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		handle, err := g.hub.Register(sess.User())
		if err != nil {
			fmt.Fprintln(sess, "The server is full. Please try again later.")
			return
		}
		defer g.hub.Unregister(handle.ID)

		logger := g.logger.With("user", sess.User(), "session", handle.ID)
		logger.Info("new game session", "term", pty.Term, "cols", pty.Window.Width, "rows", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		session := loop.NewSession(bufio.NewReader(sess), sess, loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			FPS:          g.fps,
			Haptic:       haptic.NewBell(sess, loopconfig.BellPulseMinimum),
			Logger:       logger,
			Events:       handle.Events,
		})
		if err := session.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended", "wave", session.World().Wave)
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
