package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1" // Using a forked copy of this package results in build issues

	"github.com/TeamNorCal/keywave"
	"github.com/TeamNorCal/keywave/animation"
	"github.com/TeamNorCal/keywave/config"
	"github.com/TeamNorCal/keywave/model"
	"github.com/TeamNorCal/keywave/version"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag
)

var (
	logger = logxi.New("keywave")

	cfgFile = flag.String("config", "keywave.yaml", "The YAML file naming the device layout and the effects to render")
	server  = flag.String("opc", "", "Address of the OPC (fadecandy) server, overrides the configuration file")
	fps     = flag.Int("fps", 0, "Frames rendered per second, overrides the configuration file")
	preview = flag.Bool("preview", false, "Draw the rendered frames on the terminal")
	verbose = flag.Bool("v", false, "When enabled will print internal logging for this tool")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, path.Base(os.Args[0]))
	fmt.Fprintln(out, "usage: ", os.Args[0], "[options]       effects → OPC (keywave)      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "keywave renders lighting effects across the keys of a device and sends them to OPC based USB fadecandy boards")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "")
	flag.PrintDefaults()
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Effects:")
	fmt.Fprintln(out, "")
	for _, name := range keywave.Effects.Names() {
		fmt.Fprintln(out, "  ", name)
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Environment Variables:")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "log levels are handled by the LOGXI env variables, these are documented at https://github.com/mgutz/logxi")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Sending SIGHUP reloads the effects from the configuration file.")
}

func init() {
	flag.Usage = usage
}

// load reads the configuration and the layout it names and builds the
// effects
func load(fn string) (cfg *config.Config, db *model.KeyDatabase, effects []animation.Effect, err errors.Error) {
	if cfg, err = config.Load(fn); err != nil {
		return nil, nil, nil, err
	}
	layout, err := model.LoadLayout(cfg.Layout)
	if err != nil {
		return nil, nil, nil, err
	}
	if db, err = model.NewKeyDatabase(layout); err != nil {
		return nil, nil, nil, err.With("file", cfg.Layout)
	}
	if effects, err = keywave.BuildEffects(keywave.Effects, cfg.Effects, db); err != nil {
		return nil, nil, nil, err.With("file", fn)
	}
	return cfg, db, effects, nil
}

func main() {

	// Parse the CLI flags
	if !flag.Parsed() {
		envflag.Parse()
	}

	// Turn off logging regardless of the default levels if the verbose flag is not enabled.
	// By design this is a CLI tool and outputs information that is expected to be used by shell
	// scripts etc
	//
	// tcell owns the terminal during a preview, log lines wait until it is
	// released
	var held *heldLog
	if *preview {
		held = &heldLog{}
		logger = logxi.NewLogger(held, "keywave")
	}
	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	logger.Debug(fmt.Sprintf("%s built at %s, against commit id %s", os.Args[0], version.BuildTime, version.GitHash))

	cfg, db, effects, err := load(*cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}
	if *server != "" {
		cfg.Server = *server
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	if cfg.Server == "" && !*preview {
		logger.Warn("no OPC server configured and no preview requested, frames go nowhere")
	}

	quitC := make(chan struct{})
	previewDoneC := make(chan struct{})
	defer func() {
		close(quitC)
		<-previewDoneC
		if held != nil {
			held.WriteTo(os.Stderr)
		}
	}()

	errorC := make(chan errors.Error, 1)
	swapC := make(chan []animation.Effect, 1)

	loop := keywave.NewRenderLoop(db.BlockSizes(), effects)
	subscribeC := (&keywave.Gateway{}).Start(cfg.Server, cfg.FPS, loop, swapC, errorC, quitC)

	if *verbose {
		go runMonitoring(subscribeC, quitC)
	}

	stopC := make(chan struct{})
	if *preview {
		go func() {
			defer close(previewDoneC)
			screen, errGo := tcell.NewScreen()
			if errGo != nil {
				fmt.Fprintln(os.Stderr, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime()).Error())
				return
			}
			if err := runPreview(db, screen, subscribeC, stopC, quitC); err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
			}
		}()
	} else {
		close(previewDoneC)
	}

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-sigC:
			if sig != syscall.SIGHUP {
				logger.Info("stopping", "signal", sig.String())
				return
			}
			// The device must stay the same, only the effects are rebuilt
			reloaded, err := config.Load(*cfgFile)
			if err != nil {
				logger.Warn("reload failed", "error", err.Error())
				continue
			}
			fresh, err := keywave.BuildEffects(keywave.Effects, reloaded.Effects, db)
			if err != nil {
				logger.Warn("reload failed", "error", err.Error())
				continue
			}
			swapC <- fresh

		case err := <-errorC:
			logger.Warn(err.Error())

		case <-stopC:
			return
		}
	}
}
