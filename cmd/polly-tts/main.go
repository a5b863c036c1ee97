package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/adapterinfo"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/config"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/pipeline"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/prompt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	serve := len(args) > 0 && args[0] == "serve"
	if serve {
		args = args[1:]
	}

	cfg, err := config.Loader{}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Serve mode logs to stdout like any other adapter; the interactive mode
	// keeps stdout for the prompt and the link.
	var logOut io.Writer = os.Stderr
	if serve {
		logOut = os.Stdout
	}
	logger, closeLog := newLogger(cfg.LogLevel, cfg.LogFile, logOut)
	defer closeLog()

	if serve {
		if err := runServer(ctx, cfg, logger); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runOnce(ctx, cfg, logger, args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", adapterinfo.Info.BinaryName, err)
		os.Exit(1)
	}
}

// runOnce converts a single piece of text and prints its download link. Text
// and voice come from flags when given, otherwise from the terminal.
func runOnce(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet(adapterinfo.Info.BinaryName, flag.ContinueOnError)
	text := fs.String("text", "", "text to convert to speech (prompted when empty)")
	voiceID := fs.String("voice", "", "voice id, e.g. Joanna (menu shown when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	p := prompt.New(os.Stdin, os.Stdout)
	if strings.TrimSpace(*text) == "" {
		if *text, err = p.Text(); err != nil {
			return fmt.Errorf("read text: %w", err)
		}
	}
	if strings.TrimSpace(*voiceID) == "" {
		v, err := p.Voice()
		if err != nil {
			return fmt.Errorf("read voice: %w", err)
		}
		*voiceID = v.ID
	}

	res, err := pipeline.New(deps.synth, deps.pub, logger).Run(ctx, *text, *voiceID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Your speech file is ready! Download it from: %s\n", res.Location.URL)
	logger.Debug("run finished", "metrics", deps.metrics.Snapshot())
	return nil
}
