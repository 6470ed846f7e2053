package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/park285/chess-client/internal/client"
	appcfg "github.com/park285/chess-client/internal/config"
	"github.com/park285/chess-client/internal/msgcat"
	"github.com/park285/chess-client/internal/obslog"
	"github.com/park285/chess-client/internal/render/snapshot"
	"github.com/park285/chess-client/internal/render/termview"
	"github.com/park285/chess-client/internal/wsconn"
	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	serverURL := flag.String("url", "", "game server websocket URL (overrides CHESS_SERVER_URL)")
	snapshotPath := flag.String("snapshot", "", "write a PNG of the board here after every update (overrides CHESS_SNAPSHOT_PATH)")
	flag.Parse()

	cfg, err := appcfg.Load(*envFile)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *snapshotPath != "" {
		cfg.SnapshotPath = *snapshotPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.NewString()
	view := termview.New(cat)
	out := &drawer{w: os.Stdout, view: view, logger: logger}
	if cfg.SnapshotPath != "" {
		out.snap = snapshot.NewRenderer()
		out.snapPath = cfg.SnapshotPath
	}

	var loop *client.Loop
	conn := wsconn.New(cfg.ServerURL, wsconn.Handler{
		OnMessage: func(data []byte) { loop.Deliver(client.Frame{Data: data}) },
		OnClose: func(clean bool, code int, reason string) {
			loop.Deliver(client.Frame{Closed: &client.CloseInfo{Clean: clean, Code: code, Reason: reason}})
		},
		OnError: func(err error) { loop.Deliver(client.Frame{Err: err}) },
	},
		wsconn.WithLogger(logger),
		wsconn.WithDialTimeout(cfg.DialTimeout),
		wsconn.WithPingInterval(cfg.PingInterval),
		wsconn.WithHeaderProvider(func() map[string]string {
			return map[string]string{"Origin": cfg.Origin, "X-Session-Id": sessionID}
		}),
	)

	session := client.NewSession(view, conn,
		client.WithID(sessionID),
		client.WithLogger(logger),
		client.WithMessages(cat),
	)
	loop = client.NewLoop(session, func(st client.State) { out.draw(ctx, st) })

	if err := conn.Dial(ctx); err != nil {
		log.Fatalf("ws connect error: %v", err)
	}
	out.draw(ctx, session.State())

	go readInput(os.Stdin, loop, stop)

	if err := loop.Run(ctx); err != nil {
		logger.Info("loop_stopped", zap.Error(err))
	}

	_ = conn.Close()
	waitCtx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
	defer cancel()
	if err := conn.Wait(waitCtx); err != nil {
		logger.Warn("ws_shutdown_timeout", zap.Error(err))
	}
}

// readInput turns typed squares into clicks. A line may carry one square
// ("e2") or several ("e2 e4"); "quit" stops the client.
func readInput(r io.Reader, loop *client.Loop, quit func()) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		for _, tok := range splitSquares(sc.Text()) {
			if tok == "quit" || tok == "exit" {
				quit()
				return
			}
			loop.Pick(tok)
		}
	}
}

func splitSquares(line string) []string {
	return strings.FieldsFunc(strings.ToLower(line), func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '-'
	})
}

// drawer redraws the terminal and, when configured, the PNG snapshot.
// It only runs on the loop goroutine.
type drawer struct {
	w      io.Writer
	view   *termview.View
	logger *zap.Logger

	snap     *snapshot.Renderer
	snapPath string
}

func (d *drawer) draw(ctx context.Context, st client.State) {
	if err := d.view.Draw(d.w, st); err != nil {
		d.logger.Warn("draw_failed", zap.Error(err))
	}
	if d.snap == nil {
		return
	}
	if err := d.writeSnapshot(ctx, st); err != nil {
		d.logger.Warn("snapshot_failed", zap.String("path", d.snapPath), zap.Error(err))
	}
}

func (d *drawer) writeSnapshot(ctx context.Context, st client.State) error {
	opts := snapshot.Options{
		Local:    st.Color,
		Selected: d.view.Selected(),
		Caption:  d.view.Notice(),
	}
	if opts.Caption == "" {
		opts.Caption = d.view.Prompt(st)
	}
	if st.LastMove != nil {
		opts.LastMove = &snapshot.Highlight{From: st.LastMove.From, To: st.LastMove.To}
	}
	data, err := d.snap.RenderPNG(ctx, d.view.Board, opts)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.snapPath), ".snapshot-*.png")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), d.snapPath)
}
