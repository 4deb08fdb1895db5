package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/shootblitz/internal/config"
	"github.com/tomz197/shootblitz/internal/haptic"
	"github.com/tomz197/shootblitz/internal/haptic/rumble"
	"github.com/tomz197/shootblitz/internal/loop"
	loopconfig "github.com/tomz197/shootblitz/internal/loop/config"
)

func main() {
	// The terminal belongs to the game, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("SHOOT_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "game")

	var feedback haptic.Haptic = haptic.Nop{}
	if config.GetEnvBool("SHOOT_SOUND", false) {
		spk := rumble.New()
		if err := spk.Initialize(); err != nil {
			logger.Warn("rumble unavailable", "err", err)
		} else {
			defer spk.Close()
			feedback = spk
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	session := loop.NewSession(reader, os.Stdout, loop.Options{
		FPS:    config.GetEnvInt("SHOOT_FPS", loopconfig.DefaultFPS),
		Haptic: feedback,
		Logger: logger,
	})
	if err := session.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		logger.Error("game error", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
