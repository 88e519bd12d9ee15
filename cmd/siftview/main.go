package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"siftview/internal/config"
	"siftview/internal/controller"
	"siftview/internal/eventbus"
	"siftview/internal/source"
	"siftview/internal/ui"
)

func main() {
	var configPath string
	var remote bool
	var flaky bool
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.BoolVar(&remote, "remote", false, "Serve items through a simulated paged remote source")
	flag.BoolVar(&flaky, "flaky", false, "Make the remote fail periodically (implies -remote)")
	flag.Parse()
	if flaky {
		remote = true
	}

	// Set up logging
	logFile, err := os.OpenFile("siftview.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Load configuration
	var configSvc config.Service
	if configPath != "" {
		configSvc = config.NewServiceAt(configPath)
	} else {
		configSvc = config.NewService()
	}
	cfg, err := configSvc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.Default()
	}

	// Load the data set
	entries := source.SampleEntries()
	dataFile := cfg.DataFile
	if flag.NArg() > 0 {
		dataFile = flag.Arg(0)
	}
	if dataFile != "" {
		loaded, err := source.LoadEntries(dataFile)
		if err != nil {
			fmt.Printf("Error loading data file: %v\n", err)
			os.Exit(1)
		}
		entries = loaded
	}

	// Build the controller
	opts := controller.DefaultOptions[source.Entry]()
	opts.DebounceDelay = time.Duration(cfg.Search.DebounceMs) * time.Millisecond
	opts.CaseSensitive = cfg.Search.CaseSensitive
	opts.MinQueryLength = cfg.Search.MinQueryLength
	opts.PageSize = cfg.Search.PageSize
	opts.CacheEnabled = cfg.Search.CacheEnabled
	opts.MaxCacheSize = cfg.Search.MaxCacheSize
	opts.FuzzyEnabled = cfg.Search.FuzzyEnabled
	opts.FuzzyThreshold = cfg.Search.FuzzyThreshold
	opts.SearchFields = source.SearchFields
	if remote {
		opts.Loader = source.NewRemote(entries, flaky).Load
	} else {
		opts.Items = entries
	}
	ctrl := controller.New(opts)

	// Create the UI and program
	model := ui.NewModel(ctrl, cfg, remote)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	// Forward controller events into the UI
	unsubscribe := ctrl.Bus().SubscribeAll(func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	defer unsubscribe()

	// Remote mode starts blank; issue the initial empty search
	if remote {
		ctrl.SearchNow("")
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	ctrl.Dispose()

	if cfg.UI.AutosaveOnExit {
		if err := configSvc.Save(cfg); err != nil {
			log.Printf("Error saving config: %v", err)
		}
	}
}
