// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/kusari-oss/cfnupd/internal/cfnupd/executor"
	"github.com/kusari-oss/cfnupd/internal/cfnupd/orchestrator"
	"github.com/kusari-oss/cfnupd/internal/core/artifacts"
	"github.com/kusari-oss/cfnupd/internal/core/config"
	"github.com/kusari-oss/cfnupd/internal/core/models"
	"github.com/kusari-oss/cfnupd/internal/core/prompt"
	"github.com/kusari-oss/cfnupd/internal/core/remote"
	"github.com/kusari-oss/cfnupd/internal/logging"
	"github.com/kusari-oss/cfnupd/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Dependencies builds the collaborators of an update run. Tests replace them
// with fakes.
type Dependencies struct {
	NewStackClient func(ctx context.Context, region string, logger *zap.Logger) (orchestrator.StackClient, error)
	NewEditor      func(commandLine string, cmd *cobra.Command, logger *zap.Logger) (orchestrator.Editor, error)
	NewStore       func() (orchestrator.ArtifactStore, error)
}

// DefaultDependencies talks to AWS and runs a real editor
func DefaultDependencies() Dependencies {
	return Dependencies{
		NewStackClient: newAWSClient,
		NewEditor: func(commandLine string, cmd *cobra.Command, logger *zap.Logger) (orchestrator.Editor, error) {
			editor, err := executor.NewEditor(commandLine, logger)
			if err != nil {
				return nil, err
			}
			program, args := editor.Command()
			logger.Debug("editor command", zap.String("program", program), zap.Strings("args", args))
			return editor.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()), nil
		},
		NewStore: func() (orchestrator.ArtifactStore, error) {
			return artifacts.NewManager()
		},
	}
}

type rootOptions struct {
	stackName    string
	region       string
	verbose      bool
	capabilities bool
	save         bool
	editor       string
	pollInterval time.Duration
	maxWait      time.Duration
	configFile   string
}

// NewRootCmd creates the cfnupd command
func NewRootCmd(deps Dependencies) *cobra.Command {
	return newRootCmd(&rootOptions{}, deps)
}

func newRootCmd(opts *rootOptions, deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cfnupd",
		Short: "Edit and update a CloudFormation stack in place",
		Long: `cfnupd fetches the template and parameters of a deployed CloudFormation stack,
opens them in your editor, submits the edited versions as a stack update and
waits for the update to settle.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version.Version, version.Commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts, deps)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.stackName, "stack-name", "s", "", "name of the stack to update (required)")
	flags.StringVarP(&opts.region, "region", "r", "", "AWS region (default from the AWS config, then "+config.DefaultRegion+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&opts.capabilities, "capabilities", "c", false, "acknowledge every CloudFormation capability on update")
	flags.BoolVar(&opts.save, "save", false, "copy the artifacts to ./<stack-name>/ after the update (--save=false skips the prompt)")
	flags.StringVarP(&opts.editor, "editor", "e", "", "editor command (default $EDITOR, then the config file, then "+config.DefaultEditor+")")
	flags.DurationVar(&opts.pollInterval, "poll-interval", config.DefaultPollInterval, "time between stack status queries")
	flags.DurationVar(&opts.maxWait, "max-wait", 0, "give up waiting for the stack after this long (0 waits forever)")
	flags.StringVar(&opts.configFile, "config", "", "config file (default is <user config dir>/cfnupd/config.yaml)")
	_ = cmd.MarkFlagRequired("stack-name")

	return cmd
}

// Execute runs the command with the default dependencies
func Execute(ctx context.Context) error {
	return NewRootCmd(DefaultDependencies()).ExecuteContext(ctx)
}

func runUpdate(cmd *cobra.Command, opts *rootOptions, deps Dependencies) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(logging.LevelFor(opts.verbose), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := models.ValidateStackName(opts.stackName); err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configFile, logger)
	if err != nil {
		return err
	}

	runOpts, err := buildRunOptions(cmd.Flags(), opts, cfg)
	if err != nil {
		return err
	}

	region := opts.region
	if region == "" {
		region = cfg.Region
	}
	client, err := deps.NewStackClient(ctx, region, logger)
	if err != nil {
		return err
	}

	editorCommand := config.ResolveEditor(opts.editor, cfg)
	logger.Debug("resolved editor", zap.String("command", editorCommand))
	editor, err := deps.NewEditor(editorCommand, cmd, logger)
	if err != nil {
		return err
	}

	store, err := deps.NewStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()
	o := orchestrator.NewOrchestrator(client, editor, store, runOpts).
		WithOutput(out, orchestrator.IsTerminalWriter(out)).
		WithLogger(logger).
		WithConfirm(func(question string) (bool, error) {
			return prompt.Confirm(in, out, question)
		})

	result, err := o.Run(ctx)
	logger.Debug("run finished",
		zap.String("stack", result.StackName),
		zap.String("final_status", string(result.FinalStatus)),
		zap.Int("polls", result.Polls))
	return err
}

// loadConfig reads the file named by --config, or the user config file which is
// created on first use
func loadConfig(path string, logger *zap.Logger) (*config.Config, error) {
	if path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, err
		}
		return config.LoadConfig(expanded)
	}

	path, err := config.ConfigFilePath()
	if err != nil {
		return nil, err
	}
	created, err := config.EnsureConfigFile(path)
	if err != nil {
		// The tool still works without a config file
		logger.Warn("could not create config file", zap.String("path", path), zap.Error(err))
		return config.LoadConfig("")
	}
	if created {
		logger.Debug("created config file", zap.String("path", path))
	}
	return config.LoadConfig(path)
}

// buildRunOptions merges flags over the loaded config. Flags only win when they
// were set explicitly.
func buildRunOptions(flags *pflag.FlagSet, opts *rootOptions, cfg *config.Config) (models.RunOptions, error) {
	pollInterval := cfg.PollInterval
	if flags.Changed("poll-interval") {
		pollInterval = opts.pollInterval
	}
	if pollInterval <= 0 {
		return models.RunOptions{}, fmt.Errorf("--poll-interval must be positive, got %s", pollInterval)
	}
	if opts.maxWait < 0 {
		return models.RunOptions{}, fmt.Errorf("--max-wait must not be negative, got %s", opts.maxWait)
	}

	save := models.SaveAsk
	if flags.Changed("save") {
		save = models.SaveNo
		if opts.save {
			save = models.SaveYes
		}
	}

	return models.RunOptions{
		StackName:         opts.stackName,
		AllowCapabilities: opts.capabilities,
		Save:              save,
		PollInterval:      pollInterval,
		MaxWait:           opts.maxWait,
	}, nil
}

// newAWSClient resolves the region through the SDK's default chain when none is
// given, falling back to config.DefaultRegion
func newAWSClient(ctx context.Context, region string, logger *zap.Logger) (orchestrator.StackClient, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", models.ErrRemoteUnavailable, err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = config.DefaultRegion
	}
	logger.Debug("using AWS region", zap.String("region", awsCfg.Region))

	return remote.NewClient(cloudformation.NewFromConfig(awsCfg), logger), nil
}
