// HID Loopback - low-latency input capture and re-injection
// Captures pointer/keyboard events with low-level hooks, queues them
// across a lock-free transport, and replays them as synthetic input.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"hidloop/internal/config"
	"hidloop/internal/input"
	"hidloop/internal/osutils"
	"hidloop/internal/queue"
	"hidloop/internal/replay"
	"hidloop/internal/tray"
)

var (
	version = "1.0.0"
	showVer = flag.Bool("version", false, "Show version")
	noTray  = flag.Bool("no-tray", false, "Run without the system tray menu")
	profile = flag.Bool("profile", false, "Start with the performance monitor enabled")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("hidloop version %s\n", version)
		return
	}

	cfgMgr, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}
	cfg := cfgMgr.Get()

	fmt.Println("=== High-Performance HID Loopback ===")
	printHelp(cfg)

	if runtime.GOOS == "windows" && !osutils.IsAdmin() {
		log.Println("Note: running without administrator privileges; input from elevated windows will not be captured")
	}

	flags := input.NewFlags()
	if cfg.General.ProfilingEnabled || *profile {
		flags.ProfilingEnabled.Store(true)
	}

	mouseRing := queue.New[input.MouseReport](queue.DefaultCapacity)
	keyboardRing := queue.New[input.KeyboardReport](queue.DefaultCapacity)

	normalizer := input.NewNormalizer(flags, mouseRing, keyboardRing, input.Bindings{
		PauseToggle:     cfg.Keys.PauseToggle,
		ProfilingToggle: cfg.Keys.ProfilingToggle,
		Exit:            cfg.Keys.Exit,
	})

	capture := input.NewCapture(normalizer)
	normalizer.SetExitFunc(capture.Stop)

	// A failed hook registration is fatal; nothing may start after it.
	if err := capture.Start(); err != nil {
		log.Printf("Failed to initialize capture: %v", err)
		os.Exit(1)
	}
	log.Println("Input hooks installed")

	synthesizer := replay.New(flags, mouseRing, keyboardRing, input.NewSendInputInjector())
	if cfg.Replay.IdlePollMs > 0 {
		synthesizer.SetIdleBackoff(time.Duration(cfg.Replay.IdlePollMs) * time.Millisecond)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		synthesizer.Run()
	}()

	shutdown := func() {
		flags.Running.Store(false)
		capture.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		shutdown()
	}()

	if cfg.General.ShowTray && !*noTray {
		t := tray.New("HID Loopback", flags, shutdown)
		go func() {
			capture.Wait()
			t.Stop()
		}()
		t.Run()
	}

	// The capture thread unhooks and exits once Stop was requested by
	// the exit key, the tray, or a signal. Queued samples that the
	// replay loop has not drained by then are discarded.
	capture.Wait()
	flags.Running.Store(false)
	wg.Wait()

	log.Println("HID loopback terminated.")
}

func printHelp(cfg *config.Config) {
	fmt.Println()
	fmt.Println("=== Controls ===")
	fmt.Printf("Pause toggle key:     0x%02X\n", cfg.Keys.PauseToggle)
	fmt.Printf("Profiling toggle key: 0x%02X\n", cfg.Keys.ProfilingToggle)
	fmt.Printf("Exit key:             0x%02X\n", cfg.Keys.Exit)
	fmt.Println("================")
	fmt.Println()
}
