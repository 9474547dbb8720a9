package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driving"
)

var (
	_ driving.SchemeExtractor = (*fakeExtractor)(nil)
	_ driving.WatchService    = (*fakeWatcher)(nil)
	_ driving.RunHistory      = (*fakeHistory)(nil)
	_ driving.SettingsService = (*fakeSettings)(nil)
)

type fakeExtractor struct {
	outcome domain.Outcome
	batch   *domain.BatchOutcome
	err     error

	imageCalls int
	dirCalls   int
	gotPath    string
	gotOpts    domain.ExtractOptions
}

func (f *fakeExtractor) ExtractImage(_ context.Context, path string, opts domain.ExtractOptions) (domain.Outcome, error) {
	f.imageCalls++
	f.gotPath, f.gotOpts = path, opts
	return f.outcome, f.err
}

func (f *fakeExtractor) ExtractDir(_ context.Context, dir string, opts domain.ExtractOptions) (*domain.BatchOutcome, error) {
	f.dirCalls++
	f.gotPath, f.gotOpts = dir, opts
	return f.batch, f.err
}

type fakeWatcher struct {
	outcomes []domain.Outcome
	err      error

	gotDir  string
	gotOpts domain.ExtractOptions
}

func (f *fakeWatcher) Watch(_ context.Context, dir string, opts domain.ExtractOptions) (<-chan domain.Outcome, error) {
	f.gotDir, f.gotOpts = dir, opts
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan domain.Outcome, len(f.outcomes))
	for _, o := range f.outcomes {
		ch <- o
	}
	close(ch)
	return ch, nil
}

type fakeHistory struct {
	runs []domain.RunSummary
	run  *domain.RunRecord
	err  error

	gotLimit int
	gotID    string
}

func (f *fakeHistory) List(_ context.Context, limit int) ([]domain.RunSummary, error) {
	f.gotLimit = limit
	return f.runs, f.err
}

func (f *fakeHistory) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	f.gotID = id
	return f.run, f.err
}

type fakeSettings struct {
	settings domain.Settings
	getErr   error
	setErr   error

	setKey, setValue string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{settings: domain.DefaultSettings()}
}

func (f *fakeSettings) Get() (*domain.Settings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s := f.settings
	return &s, nil
}

func (f *fakeSettings) Save(s *domain.Settings) error {
	f.settings = *s
	return nil
}

func (f *fakeSettings) Set(key, value string) error {
	f.setKey, f.setValue = key, value
	return f.setErr
}

func (f *fakeSettings) Keys() []string {
	return []string{"preprocess.workers", "output.dir"}
}

func (f *fakeSettings) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// withServices installs s for the duration of the test.
func withServices(t *testing.T, s *Services) {
	t.Helper()
	oldServices, oldFactory := services, factory
	services, factory = s, nil
	t.Cleanup(func() {
		services, factory = oldServices, oldFactory
	})
}

// execute runs the root command with args and returns the combined output.
// Flags are reset first because cobra keeps flag state between executions.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
