// Command qscore-rank scores a JSON array of records with the configured
// settings and prints them in ranked order.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/qscore/internal/adapters/settings"
	app "github.com/okian/qscore/internal/app"
	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/ranking"
	"github.com/okian/qscore/internal/domain/stats"
	"github.com/okian/qscore/internal/domain/types"
	"github.com/okian/qscore/pkg/logger"
)

type rankedItem struct {
	Rank       int     `json:"rank"`
	ItemID     string  `json:"item_id"`
	Score      float64 `json:"score"`
	Label      string  `json:"label,omitempty"`
	Class      string  `json:"class"`
	Suppressed bool    `json:"suppressed,omitempty"`
	BelowFloor bool    `json:"below_floor,omitempty"`
	Hidden     bool    `json:"hidden,omitempty"`
}

type output struct {
	PassID      string       `json:"pass_id"`
	Strategy    string       `json:"strategy"`
	Direction   string       `json:"direction"`
	Items       []rankedItem `json:"items"`
	Diagnostics []string     `json:"diagnostics,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Stderr.WriteString("qscore-rank: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("qscore-rank", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		direction = fs.String("dir", "desc", "Sort direction: desc (high to low) or asc (low to high)")
		hideLow   = fs.Bool("hide", false, "Omit items scoring below the configured hide threshold")
		verbose   = fs.Bool("verbose", false, "Log diagnostics to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: qscore-rank [flags] [file.json]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir, err := model.ParseDirection(*direction)
	if err != nil {
		return err
	}

	items, err := readItems(stdin, fs.Arg(0))
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Nop()
	if *verbose {
		log = logger.New(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat))
	}

	store, err := settings.Open(ctx, cfg)
	if err != nil {
		return err
	}
	svc := app.New(
		app.WithLogger(log),
		app.WithSettingsStore(store, cfg.SettingsBackend),
		app.WithBaseQuality(cfg.Quality),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return err
	}
	defer svc.Stop()

	ev, err := svc.Evaluate(ctx, items, dir)
	if err != nil {
		return err
	}

	// -hide applies the configured threshold even when the stored
	// hide_low_quality option is off.
	mask := ev.HiddenAt
	if *hideLow {
		q, _, err := svc.Settings(ctx)
		if err != nil {
			return err
		}
		mask = ranking.BelowMask(ev.Results, q.Options.HideThreshold)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(render(ev, mask, *hideLow))
}

// readItems decodes a JSON array from path, or from stdin when path is empty or "-".
func readItems(stdin io.Reader, path string) ([]stats.RawItem, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var items []stats.RawItem
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return items, nil
}

// render lists ev.Ranked, flagging entries whose result position is set in
// mask. Flagged entries are dropped when omit is true.
func render(ev types.Evaluation, mask []bool, omit bool) output {
	out := output{
		PassID:    ev.PassID,
		Strategy:  string(ev.Strategy),
		Direction: string(ev.Direction),
		Items:     make([]rankedItem, 0, len(ev.Ranked)),
	}
	for _, e := range ev.Ranked {
		if e.Index < 0 || e.Index >= len(ev.Results) {
			continue
		}
		res := ev.Results[e.Index]
		hidden := e.Index < len(mask) && mask[e.Index]
		if hidden && omit {
			continue
		}
		item := rankedItem{
			Rank:       e.Rank,
			ItemID:     e.ItemID,
			Score:      e.Score,
			Class:      string(res.Class),
			Suppressed: res.Suppressed,
			BelowFloor: res.BelowFloor,
			Hidden:     hidden,
		}
		if ev.ShowScores {
			item.Label = res.Label()
		}
		out.Items = append(out.Items, item)
	}
	for _, d := range ev.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, d.Message)
	}
	return out
}
