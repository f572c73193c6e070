package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yuri-SVB/Great-Wall/cidutil"
	"github.com/Yuri-SVB/Great-Wall/config"
	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/keys"
	"github.com/Yuri-SVB/Great-Wall/logging"
	"github.com/Yuri-SVB/Great-Wall/passphrase"
	"github.com/Yuri-SVB/Great-Wall/secret"
	"github.com/Yuri-SVB/Great-Wall/storage"
	"github.com/Yuri-SVB/Great-Wall/tacit"
)

type deriveOptions struct {
	configPath string
	kind       string
	depth      int
	arity      int
	tlp        int
	decoder    string
	showKeys   bool
	plain      bool
}

func newDeriveCmd(in io.Reader) *cobra.Command {
	o := &deriveOptions{}
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Run an interactive derivation and print the derived secret",
		Long: `Runs the time-lock puzzle on your passphrase, then walks the derivation
tree one level at a time. At each level pick the option you recognize, or 0
to go back. Settings not given by flag or config file are asked for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDerive(cmd, o, in)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "YAML config file")
	f.StringVar(&o.kind, "kind", "", "tacit knowledge kind: "+kindList())
	f.IntVar(&o.depth, "depth", 0, fmt.Sprintf("tree depth (%d-%d)", greatwall.MinDepth, greatwall.MaxDepth))
	f.IntVar(&o.arity, "arity", 0, fmt.Sprintf("options per level (%d-%d)", greatwall.MinArity, greatwall.MaxArity))
	f.IntVar(&o.tlp, "tlp", 0, fmt.Sprintf("time-lock puzzle iterations (%d-%d)", greatwall.MinTLP, greatwall.MaxTLP))
	f.StringVar(&o.decoder, "decoder", "", "passphrase decoder: raw or hex")
	f.BoolVar(&o.showKeys, "show-keys", false, "also print the public keys derived from the secret")
	f.BoolVar(&o.plain, "plain", false, "read answers line by line even on a terminal")
	return cmd
}

func kindList() string {
	names := make([]string, len(tacit.Kinds))
	for i, k := range tacit.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func runDerive(cmd *cobra.Command, o *deriveOptions, in io.Reader) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p := newPrompter(in, out, o.plain)
	if err := settle(cmd, o, &cfg, p); err != nil {
		return err
	}

	stretcher, err := cfg.Stretcher()
	if err != nil {
		return err
	}
	if cfg.Overridden() {
		log.Warn("stretch profiles overridden; derived secrets will not match the standard protocol")
	}
	renderer, err := cfg.Renderer(nil)
	if err != nil {
		return err
	}
	var dec passphrase.Decoder
	if o.decoder != "" {
		dec, err = passphrase.ByName(o.decoder)
	} else {
		dec, err = cfg.Decoder()
	}
	if err != nil {
		return usageError{err}
	}

	store, err := cfg.OpenArtifacts(log)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close(store) }()
	gallery := tacit.NewGallery(renderer, store)

	eng := greatwall.New(
		greatwall.WithStretcher(stretcher),
		greatwall.WithLogger(log),
		greatwall.WithParallelism(cfg.Engine.Parallelism),
		greatwall.WithRenderer(renderer),
	)
	defer func() { _ = eng.Close() }()

	if err := eng.Configure(cfg.Topology); err != nil {
		return err
	}
	phrase, err := p.Secret("Passphrase")
	if err != nil {
		return err
	}
	if err := eng.SetPassphrase(dec, phrase); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	unhook := context.AfterFunc(ctx, eng.Cancel)
	defer unhook()

	fmt.Fprintln(errOut, styles.title.Render("Solving time-lock puzzle ("+cfg.Topology.String()+")"))
	if err := bootstrap(ctx, eng, errOut); err != nil {
		return err
	}

	ka, err := navigate(ctx, eng, gallery, p, out, log)
	if err != nil {
		return err
	}
	defer secret.Wipe(ka)

	fmt.Fprintln(out, styles.title.Render("Derived secret (KA)"))
	fmt.Fprintln(out, hex.EncodeToString(ka))
	if o.showKeys {
		return printKeys(out, ka)
	}
	return nil
}

// settle fills topology and kind from flags, prompting for whatever neither
// a flag nor the config file provided.
func settle(cmd *cobra.Command, o *deriveOptions, cfg *config.Config, p prompter) error {
	f := cmd.Flags()
	fromFile := o.configPath != ""
	var err error

	switch {
	case f.Changed("kind"):
		if cfg.Tacit.Kind, err = tacit.ParseKind(o.kind); err != nil {
			return usageError{err}
		}
	case !fromFile:
		options := make([]string, len(tacit.Kinds))
		for i, k := range tacit.Kinds {
			options[i] = string(k)
		}
		s, err := p.Select("Tacit knowledge kind", options)
		if err != nil {
			return err
		}
		cfg.Tacit.Kind = tacit.Kind(s)
	}

	ints := []struct {
		flag     string
		val      int
		dst      *int
		title    string
		min, max int
	}{
		{"tlp", o.tlp, &cfg.Topology.TLPIterations, "Time-lock puzzle iterations", greatwall.MinTLP, greatwall.MaxTLP},
		{"depth", o.depth, &cfg.Topology.Depth, "Tree depth", greatwall.MinDepth, greatwall.MaxDepth},
		{"arity", o.arity, &cfg.Topology.Arity, "Options per level", greatwall.MinArity, greatwall.MaxArity},
	}
	for _, it := range ints {
		switch {
		case f.Changed(it.flag):
			*it.dst = it.val
		case !fromFile:
			title := fmt.Sprintf("%s (%d-%d)", it.title, it.min, it.max)
			if *it.dst, err = p.Int(title, it.min, it.max); err != nil {
				return err
			}
		}
	}
	if err := cfg.Topology.Validate(); err != nil {
		return usageError{err}
	}
	return nil
}

func bootstrap(ctx context.Context, eng *greatwall.Engine, w io.Writer) error {
	for ev := range eng.Start(ctx) {
		switch ev.Type {
		case greatwall.EventProgress:
			if ev.Total > 0 {
				fmt.Fprintf(w, "\r%s", styles.muted.Render(fmt.Sprintf("  %s %d/%d", ev.Stage, ev.Done, ev.Total)))
			} else {
				fmt.Fprintf(w, "\r%s", styles.muted.Render("  "+ev.Stage))
			}
		case greatwall.EventCompleted:
			fmt.Fprintln(w, "\r"+styles.ok.Render("  done"))
		default:
			fmt.Fprintln(w)
			return ev.Err
		}
	}
	return nil
}

// navigate walks the tree until the user confirms a leaf and returns its
// state.
func navigate(ctx context.Context, eng *greatwall.Engine, gallery *tacit.Gallery, p prompter, out io.Writer, log *zap.Logger) ([]byte, error) {
	topo := eng.Topology()
	for {
		level := eng.Level()
		if level == topo.Depth {
			n, err := p.Int("1 to confirm, 0 to go back", 0, 1)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				if err := eng.GoBack(); err != nil {
					return nil, err
				}
				continue
			}
			return eng.Finish()
		}

		opts, err := eng.ListOptions(ctx)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(out, styles.title.Render(fmt.Sprintf("Level %d of %d", level+1, topo.Depth)))
		for _, c := range opts.Candidates {
			entry, err := gallery.Add(c.Display)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(out, "  %d) %s  %s\n", c.Position, entry.Artifact.Summary(), styles.muted.Render(cidutil.Short(entry.CID, 12)))
		}
		log.Debug("artifacts stored", zap.Int("count", gallery.Len()))

		n, err := p.Int(fmt.Sprintf("Choose 1-%d, 0 to go back", topo.Arity), 0, topo.Arity)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if level == 0 {
				fmt.Fprintln(out, styles.muted.Render("  already at the first level"))
				continue
			}
			if err := eng.GoBack(); err != nil {
				return nil, err
			}
			continue
		}
		if err := eng.Choose(ctx, n); err != nil {
			return nil, err
		}
	}
}

func printKeys(w io.Writer, ka []byte) error {
	id, err := keys.DeriveIdentity(ka)
	if err != nil {
		return err
	}
	fp, err := id.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, styles.title.Render("Public keys"))
	fmt.Fprintf(w, "  %s\n", id.Ed25519Key())
	fmt.Fprintf(w, "  dilithium3 fingerprint: %s\n", fp)
	return nil
}
