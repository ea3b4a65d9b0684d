// Package main implements the snug binary: unit parsing and quantity
// arithmetic from the command line, plus the HTTP API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/snugunits/snug/internal/app"
	"github.com/snugunits/snug/internal/config"
	"github.com/snugunits/snug/internal/evaluator"
	"github.com/snugunits/snug/internal/logging"
	"github.com/snugunits/snug/pkg/quantity"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "snug - dimensional analysis for unit expressions\n\n")
	fmt.Fprintf(w, "Usage: snug [--version] <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  parse <expr>...                        Parse unit expressions\n")
	fmt.Fprintf(w, "  eval <value> <unit> [<op> <value> <unit>]...\n")
	fmt.Fprintf(w, "                                         Evaluate left to right (ops: + - x * /)\n")
	fmt.Fprintf(w, "  demo                                   Run the force/mass/time example\n")
	fmt.Fprintf(w, "  serve [--config f] [--env-file f] [--addr a]\n")
	fmt.Fprintf(w, "                                         Run the HTTP API\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  snug parse \"kg m / s s\"\n")
	fmt.Fprintf(w, "  snug eval 43.213 N / 12 kg x 452.42 ms\n")
	fmt.Fprintf(w, "  snug serve --addr :9090\n")
	fmt.Fprintf(w, "\nEnvironment Variables:\n")
	fmt.Fprintf(w, "  SNUG_LOG_LEVEL          Log level (debug, info, warn, error)\n")
	fmt.Fprintf(w, "  SNUG_HTTP_ADDR          HTTP listen address\n")
	fmt.Fprintf(w, "  SNUG_CACHE_ENABLED      Enable the parse cache (true, false)\n")
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("snug", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "Show version information")
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "snug version %s (commit: %s)\n", version, commit)
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "parse":
		return runParse(cmdArgs, stdout, stderr)
	case "eval":
		return runEval(cmdArgs, stdout, stderr)
	case "demo":
		return runDemo(stdout, stderr)
	case "serve":
		return runServe(cmdArgs, stderr)
	case "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		usage(stderr)
		return 2
	}
}

// cliEvaluator builds an evaluator without cache or statistics, which a
// single invocation has no use for.
func cliEvaluator() *evaluator.Evaluator {
	return evaluator.New(nil, nil, evaluator.Config{Concurrency: 1}, nil)
}

func runParse(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "parse: at least one expression is required")
		return 2
	}

	ev := cliEvaluator()
	status := 0
	for _, expr := range args {
		p, err := ev.Parse(expr)
		if err != nil {
			fmt.Fprintf(stderr, "%q: %v\n", expr, err)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "%q => %s (scale %s)\n", expr, p.Unit, strconv.FormatFloat(p.Scale, 'g', -1, 64))
	}
	return status
}

// parseOperands reads "<value> <unit> [<op> <value> <unit>]..." into the
// first operand and the steps that follow it.
func parseOperands(args []string) (evaluator.Operand, []evaluator.Step, error) {
	if len(args) < 2 || (len(args)-2)%3 != 0 {
		return evaluator.Operand{}, nil, fmt.Errorf("expected <value> <unit> [<op> <value> <unit>]..., got %d arguments", len(args))
	}

	first, err := operand(args[0], args[1])
	if err != nil {
		return evaluator.Operand{}, nil, err
	}

	var steps []evaluator.Step
	for i := 2; i < len(args); i += 3 {
		op, err := operand(args[i+1], args[i+2])
		if err != nil {
			return evaluator.Operand{}, nil, err
		}
		steps = append(steps, evaluator.Step{Op: args[i], Operand: op})
	}
	return first, steps, nil
}

func operand(value, unit string) (evaluator.Operand, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return evaluator.Operand{}, fmt.Errorf("invalid value %q: %w", value, err)
	}
	return evaluator.Operand{Value: v, Unit: unit}, nil
}

func runEval(args []string, stdout, stderr io.Writer) int {
	first, steps, err := parseOperands(args)
	if err != nil {
		fmt.Fprintf(stderr, "eval: %v\n", err)
		return 2
	}

	q, err := cliEvaluator().Chain(first, steps)
	if err != nil {
		fmt.Fprintf(stderr, "eval: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, q)
	return 0
}

func runDemo(stdout, stderr io.Writer) int {
	force, err := quantity.New(43.213, "N")
	if err != nil {
		fmt.Fprintf(stderr, "demo: %v\n", err)
		return 1
	}
	mass := quantity.Must(12, "kg")
	duration := quantity.Must(452.42, "ms")

	acceleration := force.Div(mass)
	velocity := acceleration.Mul(duration)

	fmt.Fprintf(stdout, "force        = %s\n", force)
	fmt.Fprintf(stdout, "mass         = %s\n", mass)
	fmt.Fprintf(stdout, "time         = %s\n", duration)
	fmt.Fprintf(stdout, "acceleration = %s\n", acceleration)
	fmt.Fprintf(stdout, "velocity     = %s\n", velocity)

	if _, err := force.Add(mass); err != nil {
		fmt.Fprintf(stdout, "force + mass: %v\n", err)
	}
	return 0
}

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to configuration file (YAML or JSON)")
	envFile := fs.String("env-file", ".env", "Path to a .env file")
	addr := fs.String("addr", "", "HTTP listen address")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configFile, *envFile, *addr, *logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "snug")
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting snug",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("addr", cfg.HTTP.Addr))

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", zap.Error(err))
		return 1
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return 1
	}
	return 0
}

// loadConfig loads configuration from file, .env file, environment and
// command line flags, in increasing priority.
func loadConfig(configFile, envFile, addr, logLevel string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return nil, err
		}
	}
	config.LoadFromEnv(cfg)

	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
