// Command loom-demo is an interactive todo list built on the loom runtime.
//
// It is a terminal program: keys edit an input line and manipulate the
// list, an effect-driven ticker updates the header once a second, and the
// whole screen region repaints in place after each store render. With
// stdin or stdout not a terminal (or -plain) it renders the initial state
// once and exits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"src.loom.dev/pkg/logutil"
	"src.loom.dev/pkg/node"
	"src.loom.dev/pkg/render"
	"src.loom.dev/pkg/store"
	"src.loom.dev/pkg/term"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	logPath    = flag.String("log", "", "write debug logs to this file")
	plain      = flag.Bool("plain", false, "render once to stdout and exit")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "loom-demo:", err)
		os.Exit(2)
	}
}

func run() error {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	debug := false
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		logutil.SetOutput(f, slog.LevelDebug)
		debug = true
	}

	a := newApp(cfg)
	root := node.Element("main")

	interactive := !*plain && term.IsTerminal(os.Stdin) && term.IsTerminal(os.Stdout)
	if !interactive {
		st := store.New(store.Spec[*model, any]{
			Target: root,
			Init:   a.init,
			Update: a.update,
			Render: a.render,
			Debug:  debug,
		})
		defer st.Close()
		fmt.Println(render.Render(root))
		return nil
	}

	restore, err := term.Setup(os.Stdin)
	if err != nil {
		return err
	}
	defer restore()

	frame := render.NewFrame(os.Stdout, true)
	st := store.New(store.Spec[*model, any]{
		Target: root,
		Init:   a.init,
		Update: a.update,
		// Repaint from inside the write function: it runs serially on
		// the store's goroutine, after the tree has been updated.
		Render: func(t *node.Node, s *model, send func(any)) {
			a.render(t, s, send)
			if err := frame.Draw(t); err != nil {
				logger.Error("draw failed", "err", err)
			}
		},
		Debug: debug,
	})
	defer st.Close()

	rd := term.NewReader(os.Stdin)
	for {
		k, err := rd.ReadKey()
		if err != nil {
			return err
		}
		if k == term.Ctrl('c') || k == term.Ctrl('d') {
			return nil
		}
		st.Send(keyPressed{key: k})
	}
}
