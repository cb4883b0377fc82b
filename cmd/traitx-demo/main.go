package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/comalice/traitx"
	"github.com/comalice/traitx/config"
	"github.com/comalice/traitx/constraint"
	"github.com/comalice/traitx/hooks"
)

func newLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

func parityValidator(self, other string, check func(value, parity int) error) traitx.ValidatorFunc {
	return func(p traitx.Proposal) (any, error) {
		o, err := traitx.As[int](p.Instance, other)
		if err != nil {
			return nil, err
		}
		if self == "value" {
			return p.Value, check(p.Value.(int), o)
		}
		return p.Value, check(o, p.Value.(int))
	}
}

func checkParity(value, parity int) error {
	if value%2 != parity {
		return fmt.Errorf("%d %% 2 != %d", value, parity)
	}
	return nil
}

func paritySchema(logger *zap.Logger) *traitx.Schema {
	return traitx.Define("Parity", traitx.WithLogger(logger), traitx.WithDelivery(traitx.BestEffort)).
		Attr("value", constraint.Int(), traitx.Configurable(), traitx.Help("the number")).
		Attr("parity", constraint.Int(constraint.Min(0), constraint.Max(1)), traitx.Configurable(), traitx.Help("value % 2")).
		Attr("label", constraint.String(constraint.MaxLen(32)), traitx.Configurable()).
		DefaultFunc("label", func(i *traitx.Instance) (any, error) {
			v, err := traitx.As[int](i, "value")
			return fmt.Sprintf("parity-%d", v), err
		}).
		Validate("value", parityValidator("value", "parity", checkParity), traitx.WithValidatorID("value-parity")).
		Validate("parity", parityValidator("parity", "value", checkParity), traitx.WithValidatorID("parity-value")).
		Observe(traitx.All, hooks.Log(logger)).
		MustBuild()
}

func run(ctx context.Context, args []string) error {
	mode := "dev"
	var files []string
	help := false
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--mode="):
			mode = strings.TrimPrefix(arg, "--mode=")
		case strings.HasPrefix(arg, "--config="):
			files = append(files, strings.TrimPrefix(arg, "--config="))
		case arg == "--help" || arg == "-h":
			help = true
		}
	}

	logger, err := newLogger(mode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	schema := paritySchema(logger)
	if help {
		return config.Help(os.Stdout, schema)
	}

	loader := config.NewLoader(config.WithFiles(files...), config.WithArgs(args), config.WithLogger(logger))
	values, rest, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	for _, arg := range rest {
		if !strings.HasPrefix(arg, "--mode=") && !strings.HasPrefix(arg, "--config=") {
			logger.Warn("ignoring argument", zap.String("arg", arg))
		}
	}

	inst, err := schema.New()
	if err != nil {
		return err
	}
	defer inst.Close()

	events := make(chan traitx.ChangeEvent, 16)
	if _, err := inst.Observe(traitx.All, hooks.Channel(events)); err != nil {
		return err
	}

	if err := loader.Apply(values, inst); err != nil {
		return fmt.Errorf("apply configuration: %w", err)
	}
	label, err := inst.Get("label")
	if err != nil {
		return err
	}
	fmt.Printf("%s %v label=%v\n", schema.Name(), inst.Values(), label)

	// A lone parity flip must be rejected; flipping both inside a hold is fine.
	flip := 1 - mustInt(inst, "parity")
	if err := inst.Set("parity", flip); err != nil {
		fmt.Println("rejected:", err)
	}
	err = inst.Hold(func(i *traitx.Instance) error {
		if err := i.Set("parity", flip); err != nil {
			return err
		}
		return i.Set("value", mustInt(i, "value")+1)
	})
	if err != nil {
		return err
	}

	for {
		select {
		case ev := <-events:
			fmt.Println("event:", ev)
		case <-ctx.Done():
			fmt.Println("\nShutting down gracefully...")
			return nil
		default:
			fmt.Printf("%s %v\n", schema.Name(), inst.Values())
			return nil
		}
	}
}

func mustInt(inst *traitx.Instance, name string) int {
	v, err := traitx.As[int](inst, name)
	if err != nil {
		panic(err)
	}
	return v
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		var te *traitx.Error
		if errors.As(err, &te) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", te.Kind, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
