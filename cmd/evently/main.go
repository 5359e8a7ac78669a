package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evently/evently/internal/calendar"
	"github.com/evently/evently/internal/config"
	"github.com/evently/evently/internal/events"
	applog "github.com/evently/evently/internal/log"
	"github.com/evently/evently/internal/render"
	"github.com/evently/evently/internal/tui"
)

var (
	yearFlag       = flag.Bool("y", false, "show the whole year")
	plain          = flag.Bool("n", false, "render once and exit (non-interactive)")
	agenda         = flag.Bool("a", false, "list the shown events under the calendar (with -n or -y)")
	updateEvents   = flag.Bool("u", false, "download the events file from source_url")
	eventsFile     = flag.String("e", "", "events file (.json, .yaml or .ics)")
	eventsFileLong = flag.String("events", "", "events file (.json, .yaml or .ics)")
	configFile     = flag.String("c", "", "config file (default $XDG_CONFIG_HOME/evently/config.yaml)")
	noColor        = flag.Bool("N", false, "disable all color output")
	noColorLong    = flag.Bool("no-color", false, "disable all color output")
	logFile        = flag.String("log", "", "write logs to this file while a full-screen view is open")
	initConfig     = flag.Bool("init-config", false, "write a default config file and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] [year] [month]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), `
  no arguments  show the current month
  -y            show the current year
  9             show September of this year
  1983          show all of 1983
  2012 12       show December 2012
  -y 9          show all of year 9

options:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := *configFile
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}

	if *initConfig {
		if err := writeDefaultConfig(cfgPath); err != nil {
			return err
		}
		fmt.Println("wrote", cfgPath)
		return nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applog.SetLevel(applog.ParseLevel(cfg.LogLevel))

	if *noColor || *noColorLong || cfg.NoColor || os.Getenv("NO_COLOR") != "" {
		render.SetNoColor(true)
		tui.SetNoColor(true)
	}

	req, err := parseRequest(*yearFlag, flag.Args(), time.Now())
	if err != nil {
		return err
	}
	interactive := !*plain && req.Mode == calendar.ModeMonth

	if interactive || *updateEvents {
		// Anything written to stderr would land on the alternate screen.
		if *logFile != "" {
			f, err := tea.LogToFile(*logFile, "evently")
			if err != nil {
				return err
			}
			defer f.Close()
			applog.SetOutput(f)
		} else {
			applog.SetOutput(io.Discard)
		}
	}

	if *updateEvents {
		return events.Fetch(cfg.SourceURL)
	}

	evs, notice, err := loadEvents(cfg)
	if err != nil {
		return err
	}

	service := calendar.NewService(
		calendar.WithEvents(evs),
		calendar.WithWeekStart(cfg.FirstWeekday()),
		calendar.WithLunar(cfg.Lunar),
	)
	if notice == "" && !service.HasEvents() {
		notice = "No events loaded. Pass -e <file> or set source_url and run evently -u."
	}

	if !interactive {
		return render.RunPlain(render.PlainOptions{
			Service:   service,
			Request:   req,
			MaxEvents: cfg.MaxEventsPerDay,
			Agenda:    *agenda,
			Notice:    notice,
		})
	}
	return tui.Run(service, req, tui.Options{
		MaxEvents: cfg.MaxEventsPerDay,
		Notice:    notice,
	})
}

// errConfigExists keeps -init-config from replacing a file the user edited.
var errConfigExists = errors.New("config file already exists")

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", errConfigExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return config.DefaultConfig().Save(path)
}

// loadEvents reads the configured events file, falling back to the download
// cache. A missing cache is not an error. The notice warns about a stale
// cache.
func loadEvents(cfg *config.Config) ([]events.Event, string, error) {
	path := *eventsFile
	if path == "" {
		path = *eventsFileLong
	}
	if path == "" {
		path = cfg.EventsFile
	}
	if path != "" {
		evs, err := events.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return evs, "", nil
	}

	evs, err := events.LoadFromCache()
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cachePath, err := events.CachePath()
	if err != nil {
		return nil, "", err
	}
	var notice string
	if fresh, err := events.IsCacheFresh(cachePath, cfg.CacheMaxAge); err == nil && !fresh {
		notice = "The downloaded events are older than " + cfg.CacheMaxAge.String() + ". Run evently -u to refresh them."
	}
	return evs, notice, nil
}

func parseRequest(showYear bool, args []string, now time.Time) (calendar.Request, error) {
	year := now.Year()
	month := int(now.Month())

	switch len(args) {
	case 0:
		// defaults
	case 1:
		if showYear {
			val, err := parseNumber(args[0], "year")
			if err != nil {
				return calendar.Request{}, err
			}
			year = val
		} else {
			val, err := parseNumber(args[0], "month/year")
			if err != nil {
				return calendar.Request{}, err
			}
			if val >= 1 && val <= 12 {
				month = val
			} else {
				year = val
				showYear = true
			}
		}
	case 2:
		if showYear {
			return calendar.Request{}, errors.New("-y takes at most one year argument")
		}
		y, err := parseNumber(args[0], "year")
		if err != nil {
			return calendar.Request{}, err
		}
		m, err := parseNumber(args[1], "month")
		if err != nil {
			return calendar.Request{}, err
		}
		if m < 1 || m > 12 {
			return calendar.Request{}, fmt.Errorf("month must be between 1 and 12 (got %d)", m)
		}
		year = y
		month = m
	default:
		return calendar.Request{}, errors.New("too many arguments, see --help")
	}

	req := calendar.Request{
		View: calendar.MonthView{Year: year, Month: month},
		Mode: calendar.ModeMonth,
	}
	if showYear {
		req.Mode = calendar.ModeYear
	}
	req = req.Normalize()
	if req.View.Year < calendar.MinYear || req.View.Year > calendar.MaxYear {
		return calendar.Request{}, calendar.ErrYearOutOfRange
	}
	return req, nil
}

func parseNumber(value string, field string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as %s", value, field)
	}
	return n, nil
}
