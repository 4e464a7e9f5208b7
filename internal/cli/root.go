package cli

import (
	"convert-files-go/internal/app"
	"convert-files-go/internal/config"
	"convert-files-go/pkg/logger"
	"github.com/spf13/cobra"
)

type options struct {
	log        logger.Logger
	loadConfig func(logger.Logger) (config.Config, error)
	newApp     func(config.Config, logger.Logger) (*app.App, error)
}

// NewRootCommand builds the convert-files command tree.
func NewRootCommand(log logger.Logger, version string) *cobra.Command {
	return newRootCommand(&options{
		log:        log,
		loadConfig: config.Load,
		newApp:     app.New,
	}, version)
}

func newRootCommand(opts *options, version string) *cobra.Command {
	if version == "" {
		version = "dev"
	}

	root := &cobra.Command{
		Use:     "convert-files",
		Version: version,
		Short:   "Manage file conversion definitions and their property order",
		Long: `convert-files serves the API behind the document conversion web part.

Each convert file owns an ordered list of properties whose values are joined
into the generated file name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newCheckCommand(opts),
	)
	return root
}

func (o *options) open() (*app.App, error) {
	cfg, err := o.loadConfig(o.log)
	if err != nil {
		return nil, err
	}
	return o.newApp(cfg, o.log)
}
