package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeanpaul/xylon/internal/config"
	"github.com/jeanpaul/xylon/internal/health"
	"github.com/jeanpaul/xylon/internal/persona"
	"github.com/jeanpaul/xylon/internal/pipeline"
	"github.com/jeanpaul/xylon/internal/provider"
	"github.com/jeanpaul/xylon/internal/server"
	"github.com/jeanpaul/xylon/internal/store"
	"github.com/jeanpaul/xylon/internal/tui"
	"github.com/jeanpaul/xylon/pkg/version"
)

func main() {
	providerFlag := flag.String("provider", "", "Provider name (google, ollama, openai, anthropic)")
	modelFlag := flag.String("model", "", "Model name")
	personaFlag := flag.String("persona", "", "Path to a persona configuration file")
	dataDirFlag := flag.String("data-dir", "", "Directory for concept, thought, and observation archives")
	addrFlag := flag.String("addr", "", "HTTP listen address for serve mode")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("xylon %s (%s)\n", version.Version, version.Commit)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config error: %s", err)
	}

	provName := *providerFlag
	if provName == "" {
		provName = cfg.DefaultProvider
	}
	modelName := *modelFlag
	if modelName == "" {
		modelName = cfg.DefaultModel
	}
	if *dataDirFlag != "" {
		cfg.DataDir = *dataDirFlag
	}
	if *personaFlag != "" {
		cfg.PersonaPath = *personaFlag
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}

	logger := newLogger(*debugFlag)
	defer logger.Sync()

	mode := "chat"
	args := flag.Args()
	if len(args) > 0 {
		mode = args[0]
	}

	switch mode {
	case "chat":
		launchTUI(cfg, provName, modelName, logger)
	case "serve":
		launchServer(cfg, provName, modelName, logger)
	case "doctor":
		cmdDoctor(cfg)
	case "init":
		path := config.DefaultPath()
		if err := config.WriteDefault(path); err != nil {
			fatal("%s", err)
		}
		fmt.Println(tui.SystemMsgStyle.Render("  Wrote " + path))
	case "help":
		showHelp()
	default:
		fatal("unknown command: %s (try 'xylon help')", mode)
	}
}

// newLogger builds a production zap logger; serve mode writes to stderr so
// archives and logs never interleave.
func newLogger(debug bool) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		fatal("logger init: %s", err)
	}
	return logger
}

func makeOracle(cfg *config.Config, name, modelName string) (provider.Oracle, config.ProviderConfig, error) {
	pcfg, ok := cfg.ProviderFor(name)
	if !ok {
		return nil, pcfg, fmt.Errorf("unknown provider %q (configure it in ~/.config/xylon/config.yaml)", name)
	}

	model := modelName
	if model == "" {
		model = pcfg.Model
	}

	var oracle provider.Oracle
	switch pcfg.Type {
	case "openai":
		oracle = provider.NewOpenAI(name, pcfg.BaseURL, pcfg.APIKey, model)
	case "anthropic":
		if pcfg.APIKey == "" {
			return nil, pcfg, fmt.Errorf("anthropic requires api_key (set ANTHROPIC_API_KEY)")
		}
		oracle = provider.NewAnthropic(pcfg.APIKey, model)
	case "google":
		if pcfg.APIKey == "" {
			return nil, pcfg, fmt.Errorf("google requires api_key (set GEMINI_API_KEY)")
		}
		oracle = provider.NewGoogle(pcfg.APIKey, model)
	default:
		return nil, pcfg, fmt.Errorf("unknown provider type %q", pcfg.Type)
	}
	oracle = provider.WithTimeout(oracle, cfg.OracleTimeout)
	return provider.WithRetry(oracle, cfg.MaxRetries), pcfg, nil
}

func loadPersona(cfg *config.Config) (*persona.Persona, error) {
	if cfg.PersonaPath == "" {
		return persona.Default(), nil
	}
	return persona.Load(cfg.PersonaPath)
}

type runtimeEnv struct {
	oracle       provider.Oracle
	pcfg         config.ProviderConfig
	persona      *persona.Persona
	pipe         *pipeline.Pipeline
	reflector    *pipeline.Reflector
	thoughts     *store.ThoughtLog
	concepts     *store.ConceptArchive
	observations *store.ObservationLog
}

func buildEnv(cfg *config.Config, provName, modelName string, logger *zap.Logger) (*runtimeEnv, error) {
	oracle, pcfg, err := makeOracle(cfg, provName, modelName)
	if err != nil {
		return nil, err
	}

	p, err := loadPersona(cfg)
	if err != nil {
		return nil, fmt.Errorf("persona: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	concepts := store.OpenConcepts(filepath.Join(cfg.DataDir, "concepts.json"))
	observations := store.OpenObservations(filepath.Join(cfg.DataDir, "observations.json"))
	thoughts := store.OpenThoughts(filepath.Join(cfg.DataDir, "thoughts.json"))

	pipe := pipeline.New(pipeline.Params{
		Oracle:             oracle,
		Persona:            p,
		Concepts:           concepts,
		Observations:       observations,
		Logger:             logger,
		ThoughtTemperature: cfg.Temperatures.Thought,
		ReplyTemperature:   cfg.Temperatures.Reply,
	})

	return &runtimeEnv{
		oracle:       oracle,
		pcfg:         pcfg,
		persona:      p,
		pipe:         pipe,
		reflector:    pipeline.NewReflector(oracle, p, logger, cfg.Temperatures.Reflection),
		thoughts:     thoughts,
		concepts:     concepts,
		observations: observations,
	}, nil
}

func launchTUI(cfg *config.Config, provName, modelName string, logger *zap.Logger) {
	env, err := buildEnv(cfg, provName, modelName, logger)
	if err != nil {
		fatal("%s", err)
	}

	m := tui.NewModel(tui.Config{
		Pipeline:     env.pipe,
		Reflector:    env.reflector,
		Persona:      env.persona,
		Thoughts:     env.thoughts,
		Concepts:     env.concepts,
		Observations: env.observations,
		ProviderName: env.oracle.Name(),
		ModelName:    env.oracle.ModelName(),
	})

	var opts []tea.ProgramOption
	if isTerminal() {
		opts = append(opts, tea.WithAltScreen())
	}
	opts = append(opts, tea.WithMouseCellMotion())

	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		fatal("TUI error: %s", err)
	}
}

func launchServer(cfg *config.Config, provName, modelName string, logger *zap.Logger) {
	env, err := buildEnv(cfg, provName, modelName, logger)
	if err != nil {
		fatal("%s", err)
	}

	srv := server.New(server.Config{
		Addr:      cfg.Server.Addr,
		Pipeline:  env.pipe,
		Reflector: env.reflector,
		Thoughts:  env.thoughts,
		Checker: health.Checker{
			ProviderName: provName,
			ProviderType: env.pcfg.Type,
			BaseURL:      env.pcfg.BaseURL,
			APIKey:       env.pcfg.APIKey,
		},
		Logger: logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.ListenAndServe(ctx); err != nil {
		fatal("server error: %s", err)
	}
}

func cmdDoctor(cfg *config.Config) {
	fmt.Println(tui.BannerStyle.Render(tui.Banner))
	fmt.Println(tui.SystemMsgStyle.Render("  Provider Health Check"))
	fmt.Println()

	defaultOk := true
	for name, pcfg := range cfg.Providers {
		label := name
		if name == cfg.DefaultProvider {
			label = name + " (default)"
		}
		fmt.Printf("  ● %s ... ", label)

		status := health.Checker{
			ProviderName: name,
			ProviderType: pcfg.Type,
			BaseURL:      pcfg.BaseURL,
			APIKey:       pcfg.APIKey,
		}.Probe(context.Background())

		if status.Reachable {
			modelCount := ""
			if len(status.Models) > 0 {
				modelCount = fmt.Sprintf(" (%d models)", len(status.Models))
			}
			fmt.Printf("ok%s %s\n", modelCount, (time.Duration(status.LatencyMS) * time.Millisecond).String())
		} else if name == cfg.DefaultProvider {
			defaultOk = false
			fmt.Println(tui.ErrorStyle.Render("✗ " + status.Error))
		} else {
			fmt.Println(tui.HelpStyle.Render("- " + status.Error + " (optional)"))
		}
	}

	fmt.Println()
	if defaultOk {
		fmt.Println(tui.SystemMsgStyle.Render("  Default provider healthy."))
	} else {
		fmt.Println(tui.ErrorStyle.Render("  Default provider is unreachable."))
		fmt.Println(tui.HelpStyle.Render("  For local models, start Ollama: ollama serve"))
	}
}

func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func fatal(format string, args ...any) {
	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error: "+fmt.Sprintf(format, args...)))
	os.Exit(1)
}

func showHelp() {
	help := `
` + tui.BannerStyle.Render("xylon") + ` - alien astronomer chat over a think-then-speak pipeline

` + tui.SystemMsgStyle.Render("USAGE:") + `
  xylon [flags]               Start the terminal chat client
  xylon serve [flags]         Run the HTTP API (/api/chat, /api/reflection, /api/health)
  xylon doctor                Check provider health
  xylon init                  Write a starter config file
  xylon help                  Show this help

` + tui.SystemMsgStyle.Render("FLAGS:") + `
  --provider <name>           Use a specific provider (google, ollama, openai, anthropic)
  --model <name>              Use a specific model
  --persona <path>            Load a persona configuration file
  --data-dir <path>           Archive directory (concepts, thoughts, observations)
  --addr <addr>               Listen address for serve mode
  --debug                     Enable debug logging
  --version                   Show version
  --help, -h                  Show this help

` + tui.SystemMsgStyle.Render("CHAT COMMANDS:") + `
  /help                       Show available chat commands
  /concepts                   List learned human concepts
  /archive                    List recent observation entries
  /reflect                    Run a reflection pass now
  /quit                       Exit
`
	fmt.Println(help)
}
