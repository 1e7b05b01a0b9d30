// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kusari-oss/cfnupd/internal/core/format"
	"github.com/kusari-oss/cfnupd/internal/core/models"
	"github.com/kusari-oss/cfnupd/internal/core/parameters"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// StackClient is the remote side of an update run
type StackClient interface {
	FetchTemplate(ctx context.Context, stackName string) (string, error)
	FetchParameters(ctx context.Context, stackName string) ([]models.ParameterRecord, error)
	SubmitUpdate(ctx context.Context, stackName, templateBody string, records []models.ParameterRecord, allowCapabilities bool) error
	QueryStatus(ctx context.Context, stackName string) (models.StackStatus, error)
}

// Editor lets the operator change a file, returning once they are done
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// ArtifactStore places a run's artifacts on disk
type ArtifactStore interface {
	AllocateScratch(stackName string) (models.ArtifactSet, error)
	Persist(set models.ArtifactSet, stackName string) (string, error)
}

// ConfirmFunc asks the operator a yes/no question
type ConfirmFunc func(question string) (bool, error)

const saveQuestion = "Do you want to save the artifacts on the current directory"

// Orchestrator runs one fetch, edit, submit and poll cycle for a single stack
type Orchestrator struct {
	client   StackClient
	editor   Editor
	store    ArtifactStore
	options  models.RunOptions
	confirm  ConfirmFunc
	logger   *zap.Logger
	reporter *reporter
}

// NewOrchestrator creates a new orchestrator. Output goes to io.Discard until
// WithOutput is called.
func NewOrchestrator(client StackClient, editor Editor, store ArtifactStore, options models.RunOptions) *Orchestrator {
	if options.PollInterval <= 0 {
		options.PollInterval = 5 * time.Second
	}
	return &Orchestrator{
		client:   client,
		editor:   editor,
		store:    store,
		options:  options,
		logger:   zap.NewNop(),
		reporter: &reporter{out: io.Discard},
	}
}

// WithOutput sets where progress is printed and whether it is coloured
func (o *Orchestrator) WithOutput(w io.Writer, colorize bool) *Orchestrator {
	o.reporter = &reporter{out: w, colorize: colorize}
	return o
}

// WithLogger sets the logger
func (o *Orchestrator) WithLogger(logger *zap.Logger) *Orchestrator {
	if logger != nil {
		o.logger = logger.Named("orchestrator")
	}
	return o
}

// WithConfirm sets the prompt used when the save directive is SaveAsk. Without
// one, artifacts are not saved.
func (o *Orchestrator) WithConfirm(fn ConfirmFunc) *Orchestrator {
	o.confirm = fn
	return o
}

// Run executes the update. The returned result is never nil and records how far
// the run got. A stack that ends in a failed or rolled back state is not an
// error; only failures of the run itself are.
func (o *Orchestrator) Run(ctx context.Context) (*models.RunResult, error) {
	name := o.options.StackName
	result := models.NewRunResult(name)

	var templateBody string
	var records []models.ParameterRecord
	err := o.runStep(result, models.StepFetch, func() error {
		var err error
		if templateBody, err = o.client.FetchTemplate(ctx, name); err != nil {
			return fmt.Errorf("template: %w", err)
		}
		o.reporter.progress(1, "Received CloudFormation template for %s", name)

		if records, err = o.client.FetchParameters(ctx, name); err != nil {
			return fmt.Errorf("parameters: %w", err)
		}
		o.reporter.progress(2, "Received %d CloudFormation parameters", len(records))
		return nil
	})
	if err != nil {
		return result, err
	}

	err = o.runStep(result, models.StepStage, func() error {
		set, err := o.stage(name, templateBody, records)
		if err != nil {
			return err
		}
		result.Artifacts = set
		o.reporter.progress(3, "Storing artifacts in tmp directory: %s", set.Dir)
		return nil
	})
	if err != nil {
		return result, err
	}

	err = o.runStep(result, models.StepEdit, func() error {
		o.reporter.progress(4, "Opening artifacts in editor")
		for _, path := range []string{result.Artifacts.TemplatePath, result.Artifacts.ParametersPath} {
			if err := o.editor.Edit(ctx, path); err != nil {
				return err
			}
			o.logger.Debug("edited artifact", zap.String("path", path))
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	err = o.runStep(result, models.StepSubmit, func() error {
		return o.submit(ctx, result.Artifacts)
	})
	if err != nil {
		return result, err
	}
	o.reporter.progress(5, "Update submitted, waiting for %s to settle", name)

	err = o.runStep(result, models.StepPoll, func() error {
		return o.poll(ctx, result)
	})
	if err != nil {
		return result, err
	}

	// A persist failure is reported but does not fail the run
	if err := o.runStep(result, models.StepPersist, func() error {
		return o.persist(result)
	}); err != nil {
		o.reporter.printf("Unable to save artifacts: %v\n", err)
		o.logger.Warn("artifacts not saved", zap.Error(err))
	}

	return result, nil
}

// runStep tracks fn as the named step and prefixes any error with the step name
func (o *Orchestrator) runStep(result *models.RunResult, name string, fn func() error) error {
	step := result.Step(name)
	step.Status = models.StepRunning
	o.logger.Debug("step started", zap.String("step", name))

	if err := fn(); err != nil {
		step.Status = models.StepFailure
		step.Error = err.Error()
		o.logger.Debug("step failed", zap.String("step", name), zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}

	step.Status = models.StepSuccess
	o.logger.Debug("step completed", zap.String("step", name))
	return nil
}

// stage writes the fetched template and parameters into a fresh scratch directory
func (o *Orchestrator) stage(name, templateBody string, records []models.ParameterRecord) (models.ArtifactSet, error) {
	set, err := o.store.AllocateScratch(name)
	if err != nil {
		return models.ArtifactSet{}, err
	}

	encoded, err := parameters.Encode(records)
	if err != nil {
		return set, fmt.Errorf("%w: %v", models.ErrArtifactWriteFailed, err)
	}

	if err := format.WriteFile(set.TemplatePath, []byte(templateBody)); err != nil {
		return set, fmt.Errorf("%w: %s: %v", models.ErrArtifactWriteFailed, set.TemplatePath, err)
	}
	if err := format.WriteFile(set.ParametersPath, encoded); err != nil {
		return set, fmt.Errorf("%w: %s: %v", models.ErrArtifactWriteFailed, set.ParametersPath, err)
	}

	o.logger.Debug("staged artifacts",
		zap.String("template", set.TemplatePath),
		zap.String("parameters", set.ParametersPath))
	return set, nil
}

// submit reads the edited artifacts back and sends them. Nothing is sent unless
// both files load and the parameters decode.
func (o *Orchestrator) submit(ctx context.Context, set models.ArtifactSet) error {
	templateBody, err := format.ReadFile(set.TemplatePath)
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}

	// The service has the final word on the template
	var doc yaml.Node
	if err := yaml.Unmarshal(templateBody, &doc); err != nil {
		o.logger.Warn("edited template does not parse as YAML", zap.String("path", set.TemplatePath), zap.Error(err))
	}

	raw, err := format.ReadFile(set.ParametersPath)
	if err != nil {
		return fmt.Errorf("parameters: %w", err)
	}

	records, err := parameters.Decode(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", set.ParametersPath, err)
	}

	o.logger.Debug("submitting artifacts",
		zap.Int("template_bytes", len(templateBody)),
		zap.Int("parameters", len(records)))

	return o.client.SubmitUpdate(ctx, o.options.StackName, string(templateBody), records, o.options.AllowCapabilities)
}

// poll queries the stack until it leaves the in-progress class
func (o *Orchestrator) poll(ctx context.Context, result *models.RunResult) error {
	started := time.Now()
	for {
		status, err := o.client.QueryStatus(ctx, o.options.StackName)
		if err != nil {
			return err
		}
		result.Polls++
		result.FinalStatus = status
		o.reporter.status(status)

		if !status.InProgress() {
			return nil
		}

		if o.options.MaxWait > 0 && time.Since(started) >= o.options.MaxWait {
			return fmt.Errorf("%w: %s still %s after %s", models.ErrPollTimeout, o.options.StackName, status, o.options.MaxWait)
		}

		if err := sleep(ctx, o.options.PollInterval); err != nil {
			return err
		}
	}
}

// persist copies the artifacts to the working directory if the operator wants them
func (o *Orchestrator) persist(result *models.RunResult) error {
	save, err := o.shouldSave()
	if err != nil {
		return err
	}
	if !save {
		o.reporter.printf("Artifacts are not saved in the current directory (scratch copy: %s)\n", result.Artifacts.Dir)
		return nil
	}

	o.reporter.printf("Copying cfn artifacts to %s/\n", o.options.StackName)
	target, err := o.store.Persist(result.Artifacts, o.options.StackName)
	if err != nil {
		return err
	}
	result.SavedTo = target
	return nil
}

func (o *Orchestrator) shouldSave() (bool, error) {
	switch o.options.Save {
	case models.SaveYes:
		return true, nil
	case models.SaveNo:
		return false, nil
	}

	if o.confirm == nil {
		return false, nil
	}
	return o.confirm(saveQuestion)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
