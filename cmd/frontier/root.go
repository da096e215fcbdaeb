package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-frontier"
	"github.com/goliatone/go-frontier/pkg/form"
	"github.com/goliatone/go-frontier/pkg/schema"
	"github.com/goliatone/go-frontier/pkg/transport"
	"github.com/goliatone/go-frontier/pkg/transport/graphqlhttp"
)

var errNoEndpoint = errors.New("no endpoint configured")

// app carries what the subcommands share once the root pre-run resolved it.
type app struct {
	v      *viper.Viper
	cfg    config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "frontier",
		Short:         "Forms from GraphQL mutations",
		Long:          "frontier derives a form from a GraphQL mutation and a schema, then fills it from the terminal or serves it over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(a.v, path)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	bindFlags(root, a.v)

	root.AddCommand(a.fieldsCmd(), a.fillCmd(), a.serveCmd())
	return root
}

// buildForm resolves the configured documents and constructs the form.
func (a *app) buildForm(ctx context.Context, extra ...form.Option) (*form.Form, error) {
	loader := frontier.NewLoader(schema.WithHTTPFallback(a.cfg.Timeout))

	desc, err := frontier.LoadMutation(ctx, loader, a.cfg.Mutation)
	if err != nil {
		return nil, err
	}

	var client *graphqlhttp.Client
	if a.cfg.Endpoint != "" {
		opts := []graphqlhttp.Option{
			graphqlhttp.WithTimeout(a.cfg.Timeout),
			graphqlhttp.WithLogger(a.logger.Named("transport")),
		}
		for key, value := range a.cfg.Headers {
			opts = append(opts, graphqlhttp.WithHeader(key, value))
		}
		if client, err = graphqlhttp.New(a.cfg.Endpoint, opts...); err != nil {
			return nil, err
		}
	}

	var source form.Source
	switch {
	case a.cfg.Schema != "":
		if source, err = frontier.LoadSchema(ctx, loader, a.cfg.Schema); err != nil {
			return nil, err
		}
	case client != nil:
		source = form.LiveClient(client)
	}

	var tr transport.Transport = transport.Func(func(context.Context, transport.Request) (transport.Response, error) {
		return transport.Response{}, errNoEndpoint
	})
	if client != nil {
		tr = transport.WithTracing(client, nil)
	}

	opts := []form.Option{
		form.WithMutation(desc),
		form.WithSchema(source),
		form.WithTransport(tr),
		form.WithResetOnSave(a.cfg.ResetOnSave),
		form.WithOrder(a.cfg.Order...),
		form.WithLogger(a.logger.Named("form")),
	}
	if len(a.cfg.InitialValues) > 0 {
		opts = append(opts, form.WithInitialValues(a.cfg.InitialValues))
	}
	f, err := form.New(ctx, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	return f, nil
}
